package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParties_SideBySide(t *testing.T) {
	lines := []string{
		"PACKING LIST",
		"SHIPPER",
		"CONSIGNEE",
		"Shenzhen Textile Co., Ltd.",
		"Hamburg Imports GmbH",
		"88 Industrial Road",
		"Warehouse 7, Hafenstrasse 12",
		"Shenzhen, Guangdong 518000",
		"20457 Hamburg",
		"Contact: Mr. Li",
		"Tel: +49 40 1234",
	}

	pb := extractParties(lines)
	assert.Equal(t, "Shenzhen Textile Co., Ltd.", pb.ShipperName)
	assert.Equal(t, "Hamburg Imports GmbH", pb.ConsigneeName)
	assert.Equal(t, "88 Industrial Road, Shenzhen, Guangdong 518000", pb.ShipperAddress)
	assert.Equal(t, "Warehouse 7, Hafenstrasse 12, 20457 Hamburg", pb.ConsigneeAddress)
}

func TestExtractParties_SideBySideColumnsStopIndependently(t *testing.T) {
	lines := []string{
		"SHIPPER",
		"CONSIGNEE",
		"Alpha Exports",
		"Beta Imports",
		"1 Alpha Street",
		"Tel: 555-0100", // consignee column stops here
		"Alpha City",
		"Beta City",
	}

	pb := extractParties(lines)
	assert.Equal(t, "1 Alpha Street, Alpha City", pb.ShipperAddress)
	assert.Empty(t, pb.ConsigneeAddress)
}

func TestExtractParties_SideBySideSkipsCompanyContinuations(t *testing.T) {
	lines := []string{
		"SHIPPER",
		"CONSIGNEE",
		"Alpha Trading",
		"Beta Logistics",
		"Co., Ltd.", // continuation of the shipper name, not an address line
		"B.V.",
		"1 Alpha Street",
		"2 Beta Street",
	}

	pb := extractParties(lines)
	assert.Equal(t, "1 Alpha Street", pb.ShipperAddress)
	assert.Equal(t, "2 Beta Street", pb.ConsigneeAddress)
}

func TestExtractParties_SideBySideAddressCap(t *testing.T) {
	lines := []string{
		"SHIPPER",
		"CONSIGNEE",
		"Alpha Exports",
		"Beta Imports",
		"Alpha line 1",
		"Beta line 1",
		"Alpha line 2",
		"Beta line 2",
		"Alpha line 3",
		"Beta line 3",
		"Alpha line 4", // beyond the 3-pair window
		"Beta line 4",
	}

	pb := extractParties(lines)
	assert.Equal(t, "Alpha line 1, Alpha line 2, Alpha line 3", pb.ShipperAddress)
	assert.Equal(t, "Beta line 1, Beta line 2, Beta line 3", pb.ConsigneeAddress)
}

func TestExtractParties_Vertical(t *testing.T) {
	lines := []string{
		"Shipper:",
		"Shenzhen Textile Co., Ltd.",
		"88 Industrial Road",
		"China",
		"Consignee:",
		"Hamburg Imports GmbH",
		"20457 Hamburg",
		"Germany",
		"Description",
		"1",
	}

	pb := extractParties(lines)
	assert.Equal(t, "Shenzhen Textile Co., Ltd.", pb.ShipperName)
	assert.Equal(t, "88 Industrial Road, China", pb.ShipperAddress)
	assert.Equal(t, "Hamburg Imports GmbH", pb.ConsigneeName)
	assert.Equal(t, "20457 Hamburg, Germany", pb.ConsigneeAddress)
}

func TestFindPartyHeaders(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		wantShipper   int
		wantConsignee int
	}{
		{
			name:          "exact uppercase headers",
			lines:         []string{"EXPORTER", "IMPORTER"},
			wantShipper:   0,
			wantConsignee: 1,
		},
		{
			name:          "prefixed labels",
			lines:         []string{"x", "Shipper: inline", "Consignee: inline"},
			wantShipper:   1,
			wantConsignee: 2,
		},
		{
			name:          "reference lines excluded",
			lines:         []string{"Exporter Reference: 991", "SHIPPER", "CONSIGNEE"},
			wantShipper:   1,
			wantConsignee: 2,
		},
		{
			name:          "first occurrence locks",
			lines:         []string{"SHIPPER", "CONSIGNEE", "SHIPPER", "CONSIGNEE"},
			wantShipper:   0,
			wantConsignee: 1,
		},
		{
			name:          "missing consignee",
			lines:         []string{"SHIPPER", "somebody"},
			wantShipper:   0,
			wantConsignee: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := findPartyHeaders(tt.lines)
			assert.Equal(t, tt.wantShipper, s)
			assert.Equal(t, tt.wantConsignee, c)
		})
	}
}

func TestExtractParties_MissingHeader(t *testing.T) {
	pb := extractParties([]string{"SHIPPER", "Alpha Exports", "1 Alpha Street"})
	assert.Equal(t, partyBlock{}, pb)
}
