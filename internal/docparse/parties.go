package docparse

import (
	"regexp"
	"strings"
)

// partyBlock holds the shipper/consignee identity recovered from a document.
// Missing pieces stay empty.
type partyBlock struct {
	ShipperName      string
	ShipperAddress   string
	ConsigneeName    string
	ConsigneeAddress string
}

// partyLayout is the detected arrangement of the two party blocks.
type partyLayout int

const (
	layoutSideBySide partyLayout = iota // headers adjacent, data rows interleave columns
	layoutVertical                      // shipper section followed by consignee section
)

// maxAddressPairs caps the side-by-side address block at 3 line pairs.
// Addresses longer than that are silently truncated.
const maxAddressPairs = 3

var (
	reReference     = regexp.MustCompile(`(?i)Reference|Ref\.`)
	reAddressStop   = regexp.MustCompile(`(?i)^(Contact|Tel|Phone|EORI|Tax|Item|Description|No\.)`)
	reVerticalSkip  = regexp.MustCompile(`(?i)^(Consignee|Invoice|Date|Item)`)
	reTableBoundary = regexp.MustCompile(`^(No\.|Description|Item|HS\s*Code|\d+$)`)
)

var (
	shipperHeaders = map[string]struct{}{
		"SHIPPER": {}, "EXPORTER": {}, "EXPORTER (SHIPPER)": {},
	}
	shipperPrefixes = []string{"Shipper:", "SHIPPER:", "EXPORTER (SHIPPER):"}

	consigneeHeaders = map[string]struct{}{
		"CONSIGNEE": {}, "IMPORTER": {}, "CONSIGNEE (RECEIVER)": {},
	}
	consigneePrefixes = []string{"Consignee:", "CONSIGNEE:", "CONSIGNEE (RECEIVER):"}
)

// companyMarkers flag a line as a company-name continuation rather than an
// address line in the side-by-side layout.
var companyMarkers = []string{"Co.", "Ltd.", "Inc.", "LLC", "GmbH", "S.L.", "B.V.", "S.A."}

// extractParties locates the shipper and consignee headers and parses the
// blocks with the strategy the layout calls for. Missing either header
// yields the empty record.
func extractParties(lines []string) partyBlock {
	shipperIdx, consigneeIdx := findPartyHeaders(lines)
	if shipperIdx == -1 || consigneeIdx == -1 {
		return partyBlock{}
	}
	switch detectPartyLayout(shipperIdx, consigneeIdx) {
	case layoutSideBySide:
		return parseSideBySide(lines, consigneeIdx)
	default:
		return parseVertical(lines, shipperIdx, consigneeIdx)
	}
}

// detectPartyLayout: adjacent headers mean a FedEx/DHL-style two-column
// block; anything else is the classic vertical form.
func detectPartyLayout(shipperIdx, consigneeIdx int) partyLayout {
	if consigneeIdx == shipperIdx+1 {
		return layoutSideBySide
	}
	return layoutVertical
}

// findPartyHeaders scans once, in order, locking each header on its first
// qualifying line. Lines mentioning "Reference"/"Ref." are excluded so an
// "Exporter Reference" label never counts as a header.
func findPartyHeaders(lines []string) (shipperIdx, consigneeIdx int) {
	shipperIdx, consigneeIdx = -1, -1
	for i, line := range lines {
		upper := strings.TrimRight(strings.ToUpper(line), ":")
		switch {
		case shipperIdx == -1 && isPartyHeader(line, upper, shipperHeaders, shipperPrefixes):
			shipperIdx = i
		case consigneeIdx == -1 && isPartyHeader(line, upper, consigneeHeaders, consigneePrefixes):
			consigneeIdx = i
		}
	}
	return shipperIdx, consigneeIdx
}

func isPartyHeader(line, upper string, exact map[string]struct{}, prefixes []string) bool {
	if reReference.MatchString(line) {
		return false
	}
	if _, ok := exact[upper]; ok {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// parseSideBySide reads the two-column block: the two lines after the
// consignee header are the names (shipper first), then address rows
// interleave shipper/consignee columns. Each column stops independently at
// the first stop-prefix line; company-name continuations are skipped.
func parseSideBySide(lines []string, consigneeIdx int) partyBlock {
	var pb partyBlock

	dataStart := consigneeIdx + 1
	if dataStart < len(lines) {
		pb.ShipperName = lines[dataStart]
	}
	if dataStart+1 < len(lines) {
		pb.ConsigneeName = lines[dataStart+1]
	}

	addrStart := dataStart + 2
	var shipperLines, consigneeLines []string
	shipperDone, consigneeDone := false, false
	for offset := 0; offset < 2*maxAddressPairs; offset += 2 {
		if sIdx := addrStart + offset; !shipperDone && sIdx < len(lines) {
			switch line := lines[sIdx]; {
			case reAddressStop.MatchString(line):
				shipperDone = true
			case !looksLikeCompanyName(line):
				shipperLines = append(shipperLines, line)
			}
		}
		if cIdx := addrStart + offset + 1; !consigneeDone && cIdx < len(lines) {
			switch line := lines[cIdx]; {
			case reAddressStop.MatchString(line):
				consigneeDone = true
			case !looksLikeCompanyName(line):
				consigneeLines = append(consigneeLines, line)
			}
		}
	}

	pb.ShipperAddress = strings.Join(shipperLines, ", ")
	pb.ConsigneeAddress = strings.Join(consigneeLines, ", ")
	return pb
}

// parseVertical reads the classic form: name on the line after each header,
// shipper address up to the consignee header, consignee address down to the
// first table-boundary line.
func parseVertical(lines []string, shipperIdx, consigneeIdx int) partyBlock {
	var pb partyBlock

	if shipperIdx+1 < len(lines) {
		pb.ShipperName = lines[shipperIdx+1]
	}
	var addr []string
	for i := shipperIdx + 2; i < consigneeIdx; i++ {
		if !reVerticalSkip.MatchString(lines[i]) {
			addr = append(addr, lines[i])
		}
	}
	pb.ShipperAddress = strings.Join(addr, ", ")

	if consigneeIdx+1 < len(lines) {
		pb.ConsigneeName = lines[consigneeIdx+1]
	}
	addr = nil
	for i := consigneeIdx + 2; i < len(lines); i++ {
		if reTableBoundary.MatchString(lines[i]) {
			break
		}
		addr = append(addr, lines[i])
	}
	pb.ConsigneeAddress = strings.Join(addr, ", ")
	return pb
}

func looksLikeCompanyName(line string) bool {
	for _, marker := range companyMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
