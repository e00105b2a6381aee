package scanning

// expenseAnalysisPrompt is the shared prompt used by the LLM backends. It asks
// for the same JSON shape AWS Textract AnalyzeExpense returns so every
// backend goes through one adapter and one normalizer.
const expenseAnalysisPrompt = `You are analyzing a receipt or invoice document. Carefully read all text in the image and report it as an expense analysis.

Return ONLY valid JSON in this exact format:
{
  "ExpenseDocuments": [
    {
      "SummaryFields": [
        {"Type": {"Text": "VENDOR_NAME"}, "LabelDetection": {"Text": "label as printed"}, "ValueDetection": {"Text": "value as printed"}, "Confidence": 0.0}
      ],
      "LineItemGroups": [
        {
          "LineItems": [
            {"LineItemExpenseFields": [
              {"Type": {"Text": "ITEM"}, "ValueDetection": {"Text": "product name as printed"}},
              {"Type": {"Text": "QUANTITY"}, "ValueDetection": {"Text": "1"}},
              {"Type": {"Text": "UNIT_PRICE"}, "ValueDetection": {"Text": "2.50"}},
              {"Type": {"Text": "PRICE"}, "ValueDetection": {"Text": "2.50"}}
            ]}
          ]
        }
      ]
    }
  ]
}

Summary field types to use:
- Vendor: VENDOR_NAME, VENDOR_ADDRESS, VENDOR_GST_NUMBER, VENDOR_PHONE
- Receipt details: AMOUNT_PAID, INVOICE_RECEIPT_DATE, INVOICE_RECEIPT_ID, SERVICE_CHARGE, SUBTOTAL, TAX, TOTAL
- Customer: TAX_PAYER_ID, RECEIVER_NAME
- Anything else: OTHER

Important:
- Copy values exactly as printed, including currency symbols
- Put every product row of the receipt in the first LineItemGroups entry, in printed order
- Leave out a field entirely if it is not on the receipt; do not invent values
- Always include "SummaryFields" and "LineItemGroups", even when empty
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
