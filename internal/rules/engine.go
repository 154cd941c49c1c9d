package rules

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shipper-lite/backend/constants"
	"github.com/shipper-lite/backend/internal/entity"
)

var (
	reHasDigit = regexp.MustCompile(`\d`)
	reHSCode   = regexp.MustCompile(`^\d{6,10}$`)
)

// vagueDescriptions are catch-all terms customs will reject as a product
// description.
var vagueDescriptions = map[string]struct{}{
	"goods": {}, "products": {}, "items": {}, "stuff": {}, "merchandise": {}, "cargo": {},
}

// Engine applies compliance rules to extracted field lists. It never
// returns an error: missing or malformed fields become failed results with a
// descriptive message.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Validate applies the document-type rules followed by the common rules,
// selecting the subset from the "_document_type" tag. Result order is fixed
// and deterministic.
func (e *Engine) Validate(fields []entity.ExtractedField) []entity.ValidationResult {
	m := entity.FieldMap(fields)

	var results []entity.ValidationResult
	docType := constants.DocumentType(m[entity.FieldDocumentType])
	switch docType {
	case constants.Invoice:
		results = append(results, invoiceRules(m)...)
	case constants.PackingList:
		results = append(results, packingListRules(m)...)
	}
	results = append(results, commonRules(m)...)

	e.logger.Debug("rules.validate",
		"document_type", docType, "fields", len(fields), "results", len(results))
	return results
}

// check builds a result, attaching the message only on failure.
func check(field string, passed bool, failMessage string) entity.ValidationResult {
	r := entity.ValidationResult{FieldName: field, Passed: passed}
	if !passed {
		r.ErrorMessage = failMessage
	}
	return r
}

func invoiceRules(m map[string]string) []entity.ValidationResult {
	value := m["invoice_value"]
	desc := m["product_description"]
	return []entity.ValidationResult{
		check("invoice_value", value != "" && reHasDigit.MatchString(value),
			"Total invoice value missing"),
		check("invoice_date", m["invoice_date"] != "",
			"Missing required date (invoice date)"),
		check("hs_code", reHSCode.MatchString(m["hs_code"]),
			"HS code missing or invalid (must be 6-10 digits)"),
		check("product_description", len(desc) > 5 && !isVagueDescription(desc),
			"Product description too vague"),
	}
}

func packingListRules(m map[string]string) []entity.ValidationResult {
	date := m["date"]
	if date == "" {
		date = m["invoice_date"]
	}
	count, err := strconv.Atoi(m["item_count"])
	hasItems := m["item_count"] != "" && err == nil && count > 0
	return []entity.ValidationResult{
		check("document_date", date != "", "Missing document date"),
		check("item_count", hasItems, "Packing list is missing item count"),
	}
}

// commonRules check party identity for both document types. Each address is
// evaluated only when its name rule passed.
func commonRules(m map[string]string) []entity.ValidationResult {
	var results []entity.ValidationResult

	hasShipper := len(m["shipper_name"]) > 2
	results = append(results, check("shipper_name", hasShipper, "Shipper name incomplete"))
	if hasShipper {
		results = append(results, check("shipper_address", len(m["shipper_address"]) > 10,
			"Shipper address incomplete"))
	}

	hasConsignee := len(m["consignee_name"]) > 2
	results = append(results, check("consignee_name", hasConsignee, "Consignee name incomplete"))
	if hasConsignee {
		results = append(results, check("consignee_address", len(m["consignee_address"]) > 10,
			"Consignee address incomplete"))
	}

	return results
}

// isVagueDescription normalizes and flags catch-all or too-short product
// descriptions.
func isVagueDescription(desc string) bool {
	d := strings.ToLower(strings.TrimSpace(desc))
	if _, ok := vagueDescriptions[d]; ok {
		return true
	}
	return len(d) < 5
}

// ValidateCrossDocument reconciles the two independently extracted field
// sets. Match rules are emitted in fixed order: invoice number, item count,
// shipper, consignee. Each is conditional on field presence, except the
// item-count rule which forces a failure when exactly one side carries a
// count.
func (e *Engine) ValidateCrossDocument(invoiceFields, packingListFields []entity.ExtractedField) []entity.ValidationResult {
	inv := entity.FieldMap(invoiceFields)
	pack := entity.FieldMap(packingListFields)

	var results []entity.ValidationResult

	if invNo, packNo := inv["invoice_no"], pack["invoice_no"]; invNo != "" && packNo != "" {
		results = append(results, check("invoice_number_match", invNo == packNo,
			fmt.Sprintf("Invoice number mismatch: %s vs %s", invNo, packNo)))
	}

	invCount, packCount := inv["item_count"], pack["item_count"]
	switch {
	case invCount != "" && packCount != "":
		results = append(results, check("item_count_match", invCount == packCount,
			fmt.Sprintf("Item count mismatch: invoice has %s, packing list has %s", invCount, packCount)))
	case invCount != "":
		results = append(results, check("item_count_match", false,
			"Packing list is missing item count"))
	case packCount != "":
		results = append(results, check("item_count_match", false,
			"Invoice is missing item count"))
	}

	if a, b := inv["shipper_name"], pack["shipper_name"]; a != "" && b != "" {
		results = append(results, check("shipper_consistency", FuzzyMatch(a, b, DefaultFuzzyThreshold),
			"Shipper name inconsistent between documents"))
	}
	if a, b := inv["consignee_name"], pack["consignee_name"]; a != "" && b != "" {
		results = append(results, check("consignee_consistency", FuzzyMatch(a, b, DefaultFuzzyThreshold),
			"Consignee name inconsistent between documents"))
	}

	e.logger.Debug("rules.validate_cross", "results", len(results))
	return results
}
