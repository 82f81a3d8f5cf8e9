package service

import "fmt"

const relatednessSystemPrompt = `You are a verifier for business documents. Decide whether an INVOICE matches a governing CONTRACT or PURCHASE ORDER. Use ONLY the provided full texts.
Output a JSON object with:
- score: a number between 0 and 1
- label: "related" (score >= 0.6), "possibly_related" (0.4-0.59), or "unrelated" (< 0.4)
- explain: an array of short reasons (e.g., PO number matches, vendor names align, period overlaps)
Return ONLY valid JSON.`

const discrepanciesSystemPrompt = `You are an accounts-payable auditor. Compare the INVOICE (document A) against the governing CONTRACT or PURCHASE ORDER (document B) and list every billing discrepancy.
Use these codes:
DOC_ID_MISMATCH, VENDOR_MISMATCH, CUSTOMER_MISMATCH, OUT_OF_TERM, TOTAL_OVER_AUTH, LINE_NOT_IN_AUTH, UNIT_RATE_EXCEEDS, QTY_EXCEEDS, TAX_NOT_ALLOWED, SHIPPING_NOT_ALLOWED, DISCOUNT_MISSING, CURRENCY_MISMATCH, MILESTONE_NOT_MET, BILLING_FREQUENCY_VIOLATION.
Each finding is a JSON object with:
- code: one of the codes above
- type: monetary | identity | date | policy | structure
- severity: high | medium | low
- confidence: a number between 0 and 1
- expected: what document B allows
- actual: what document A bills
- a_excerpt: quote from the invoice (<=160 chars)
- b_excerpt: quote from the governing document (<=160 chars)
- a_location: where in the invoice (page, line, section)
- b_location: where in the governing document
- suggested_resolution: one short sentence
If no issues, return [].
Return ONLY a JSON array.`

const documentsPromptTemplate = "INVOICE (full text):\n<<<\n%s\n>>>\nGOVERNING DOC (full text: contract or PO):\n<<<\n%s\n>>>"

func relatednessUserPrompt(invoice, governing string) string {
	return fmt.Sprintf(documentsPromptTemplate, invoice, governing)
}

func discrepanciesUserPrompt(invoice, governing string) string {
	return fmt.Sprintf(documentsPromptTemplate, invoice, governing)
}
