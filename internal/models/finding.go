package models

type RelatednessLabel string

const (
	LabelRelated         RelatednessLabel = "related"
	LabelPossiblyRelated RelatednessLabel = "possibly_related"
	LabelUnrelated       RelatednessLabel = "unrelated"
)

const (
	RelatedThreshold         = 0.6
	PossiblyRelatedThreshold = 0.4
)

// LabelForScore applies the thresholds the relatedness prompt asks the model
// to use.
func LabelForScore(score float64) RelatednessLabel {
	switch {
	case score >= RelatedThreshold:
		return LabelRelated
	case score >= PossiblyRelatedThreshold:
		return LabelPossiblyRelated
	default:
		return LabelUnrelated
	}
}

func (l RelatednessLabel) Valid() bool {
	switch l {
	case LabelRelated, LabelPossiblyRelated, LabelUnrelated:
		return true
	}
	return false
}

type GoverningDocType string

const (
	GoverningPO       GoverningDocType = "po"
	GoverningContract GoverningDocType = "contract"
)

type FindingCode string

const (
	CodeDocIDMismatch             FindingCode = "DOC_ID_MISMATCH"
	CodeVendorMismatch            FindingCode = "VENDOR_MISMATCH"
	CodeCustomerMismatch          FindingCode = "CUSTOMER_MISMATCH"
	CodeOutOfTerm                 FindingCode = "OUT_OF_TERM"
	CodeTotalOverAuth             FindingCode = "TOTAL_OVER_AUTH"
	CodeLineNotInAuth             FindingCode = "LINE_NOT_IN_AUTH"
	CodeUnitRateExceeds           FindingCode = "UNIT_RATE_EXCEEDS"
	CodeQtyExceeds                FindingCode = "QTY_EXCEEDS"
	CodeTaxNotAllowed             FindingCode = "TAX_NOT_ALLOWED"
	CodeShippingNotAllowed        FindingCode = "SHIPPING_NOT_ALLOWED"
	CodeDiscountMissing           FindingCode = "DISCOUNT_MISSING"
	CodeCurrencyMismatch          FindingCode = "CURRENCY_MISMATCH"
	CodeMilestoneNotMet           FindingCode = "MILESTONE_NOT_MET"
	CodeBillingFrequencyViolation FindingCode = "BILLING_FREQUENCY_VIOLATION"
)

// FindingCodes lists the allowed discrepancy codes in prompt order.
var FindingCodes = []FindingCode{
	CodeDocIDMismatch, CodeVendorMismatch, CodeCustomerMismatch, CodeOutOfTerm, CodeTotalOverAuth,
	CodeLineNotInAuth, CodeUnitRateExceeds, CodeQtyExceeds, CodeTaxNotAllowed, CodeShippingNotAllowed,
	CodeDiscountMissing, CodeCurrencyMismatch, CodeMilestoneNotMet, CodeBillingFrequencyViolation,
}

type FindingType string

const (
	FindingMonetary  FindingType = "monetary"
	FindingIdentity  FindingType = "identity"
	FindingDate      FindingType = "date"
	FindingPolicy    FindingType = "policy"
	FindingStructure FindingType = "structure"
)

var FindingTypes = []FindingType{FindingMonetary, FindingIdentity, FindingDate, FindingPolicy, FindingStructure}

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// MaxExcerptLen bounds a_excerpt and b_excerpt, in characters.
const MaxExcerptLen = 160
