package constants

// DocumentType identifies which trade document a text blob came from.
type DocumentType string

// Stable values (stored and sent over the wire as these exact strings).
const (
	Invoice     DocumentType = "invoice"
	PackingList DocumentType = "packing_list"
)

// ParseDocumentType maps a wire string onto a known document type.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch DocumentType(s) {
	case Invoice:
		return Invoice, true
	case PackingList:
		return PackingList, true
	}
	return "", false
}
