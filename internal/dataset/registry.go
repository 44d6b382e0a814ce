package dataset

// Family identifies which column whitelist applies to a source.
type Family string

const (
	FamilyLoanHistory    Family = "loan_history"
	FamilyDebtCollection Family = "debt_collection"
	FamilyIncome         Family = "income"
)

// Columns returns the projection whitelist for the family, in render order.
func (f Family) Columns() []string {
	switch f {
	case FamilyLoanHistory:
		return []string{"customer_id", "loan_status", "disbursement_date", "loanamount", "repayments_quantity", "type", "status", "amount", "comment"}
	case FamilyDebtCollection:
		return []string{"customer_id", "created_at", "collector_type", "collector", "type", "status", "commitment_amount", "comment", "next_action"}
	case FamilyIncome:
		return []string{"customer_id", "average_income", "year", "month", "amount"}
	default:
		return nil
	}
}

// Spec describes one tabular source consulted when building a customer digest.
type Spec struct {
	SourceFile string
	Label      string
	Family     Family
}

// Registry returns the ordered list of production sources. The order is the
// order blocks appear in the digest, so it is part of the prompt contract.
func Registry() []Spec {
	return []Spec{
		{SourceFile: "37. debt collection.csv", Label: "Зээл авах үеийн нөхцөл байдал (Өрийн мэдээлэл)", Family: FamilyDebtCollection},
		{SourceFile: "98. debt collection.csv", Label: "Одоогийн нөхцөл байдал (Өрийн мэдээлэл)", Family: FamilyDebtCollection},
		{SourceFile: "37.loan history.csv", Label: "Зээл авах үеийн нөхцөл байдал (Зээлийн эргэн төлсөн түүх)", Family: FamilyLoanHistory},
		{SourceFile: "98. loan history.csv", Label: "Одоогийн нөхцөл байдал (Зээлийн эргэн төлсөн түүх)", Family: FamilyLoanHistory},
		{SourceFile: "98. Income.csv", Label: "Одоогийн нөхцөл байдал (Орлого)", Family: FamilyIncome},
	}
}
