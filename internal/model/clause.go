package model

// ClauseType is the closed category assigned to a clause
type ClauseType string

const (
	ClausePaymentObligation ClauseType = "payment_obligation" // Duties to pay, fees, compensation
	ClauseLiability         ClauseType = "liability"          // Liability, indemnification, damages
	ClauseTermination       ClauseType = "termination"        // Ending the agreement
	ClauseConfidentiality   ClauseType = "confidentiality"    // Non-disclosure, trade secrets
	ClauseWarranty          ClauseType = "warranty"           // Warranties and representations
	ClauseCondition         ClauseType = "condition"          // Conditional provisions
	ClauseDefinition        ClauseType = "definition"         // Definitional clauses
	ClauseGeneralObligation ClauseType = "general_obligation" // Generic "shall/must" duties
	ClauseGeneral           ClauseType = "general"            // Fallback when nothing matches
)

// ClauseTypes lists every clause type, fallback last
func ClauseTypes() []ClauseType {
	return []ClauseType{
		ClausePaymentObligation,
		ClauseLiability,
		ClauseTermination,
		ClauseConfidentiality,
		ClauseWarranty,
		ClauseCondition,
		ClauseDefinition,
		ClauseGeneralObligation,
		ClauseGeneral,
	}
}

// ClauseSpan is one segmented unit of the source text.
// Spans are immutable once created: Index is 1-based and sequential in
// segmentation order, and the offsets point back into the source text.
type ClauseSpan struct {
	Index       int    `json:"index"`
	Text        string `json:"original_text"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// KeyEntities holds the structured fields mined from a clause.
// Absent fields are omitted from JSON output rather than emitted as nulls.
type KeyEntities struct {
	Party1     string   `json:"party_1,omitempty"`    // First distinct role-noun mention
	Party2     string   `json:"party_2,omitempty"`    // Second distinct role-noun mention
	Amount     string   `json:"amount,omitempty"`     // First currency-marked token
	Deadline   string   `json:"deadline,omitempty"`   // First duration phrase
	Conditions bool     `json:"conditions,omitempty"` // Conditional marker present
	Numerics   []string `json:"numerics,omitempty"`   // All numeric tokens, order of appearance
}

// Empty reports whether no entity was extracted
func (e KeyEntities) Empty() bool {
	return e.Party1 == "" && e.Party2 == "" && e.Amount == "" &&
		e.Deadline == "" && !e.Conditions && len(e.Numerics) == 0
}
