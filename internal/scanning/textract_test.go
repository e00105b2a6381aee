package scanning

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-scanner/internal/expense"
)

// mockTextractClient is a mock implementation of TextractAPI
type mockTextractClient struct {
	output   *textract.AnalyzeExpenseOutput
	err      error
	input    *textract.AnalyzeExpenseInput
	deadline bool
}

func (m *mockTextractClient) AnalyzeExpense(ctx context.Context, params *textract.AnalyzeExpenseInput, optFns ...func(*textract.Options)) (*textract.AnalyzeExpenseOutput, error) {
	m.input = params
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func expenseField(tag, value string) types.ExpenseField {
	return types.ExpenseField{
		Type:           &types.ExpenseType{Text: aws.String(tag)},
		ValueDetection: &types.ExpenseDetection{Text: aws.String(value), Confidence: aws.Float32(90)},
	}
}

func sampleOutput() *textract.AnalyzeExpenseOutput {
	total := expenseField("TOTAL", "$12.50")
	total.LabelDetection = &types.ExpenseDetection{Text: aws.String("TOTAL")}
	return &textract.AnalyzeExpenseOutput{
		ExpenseDocuments: []types.ExpenseDocument{
			{
				SummaryFields: []types.ExpenseField{
					expenseField("VENDOR_NAME", "Corner Market"),
					total,
					expenseField("TOTAL", "$13.00"),
				},
				LineItemGroups: []types.LineItemGroup{
					{LineItems: []types.LineItemFields{
						{LineItemExpenseFields: []types.ExpenseField{
							expenseField("ITEM", "Apples"),
							expenseField("PRICE", "$13.00"),
						}},
					}},
					{LineItems: []types.LineItemFields{
						{LineItemExpenseFields: []types.ExpenseField{expenseField("ITEM", "Second table")}},
					}},
				},
			},
		},
	}
}

var _ = Describe("Textract", func() {
	var (
		client      *mockTextractClient
		scanner     *Textract
		imageData   []byte
		contentType string
		result      *expense.NormalizedReceipt
		err         error
	)

	BeforeEach(func() {
		client = &mockTextractClient{output: sampleOutput()}
		scanner = NewTextractWithClient(client, time.Second)
		imageData = []byte("fake jpeg bytes")
		contentType = "image/jpeg"
	})

	JustBeforeEach(func() {
		result, err = scanner.Analyze(context.Background(), imageData, contentType)
	})

	When("the call succeeds", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should send the image bytes unchanged", func() {
			Expect(client.input.Document.Bytes).To(Equal(imageData))
		})

		It("should call with a deadline", func() {
			Expect(client.deadline).To(BeTrue())
		})

		It("should keep the last repeated summary value", func() {
			Expect(result.Summary.ReceiptDetails["TOTAL"]).To(Equal("$13.00"))
		})

		It("should read only the first line item group", func() {
			Expect(result.Table).To(Equal([]expense.ItemRow{{"ITEM": "Apples", "PRICE": "$13.00"}}))
			Expect(result.Summary.ReceiptDetails["ITEMS"]).To(Equal("1"))
		})
	})

	When("the image is in a format Textract cannot read", func() {
		BeforeEach(func() {
			img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.White, color.Black})
			var buf bytes.Buffer
			Expect(gif.Encode(&buf, img, nil)).To(Succeed())
			imageData = buf.Bytes()
			contentType = "image/gif"
		})

		It("should send PNG bytes", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(client.input.Document.Bytes[:4]).To(Equal([]byte("\x89PNG")))
		})
	})

	When("the service call fails", func() {
		BeforeEach(func() {
			client.err = errors.New("throttled")
		})

		It("returns the wrapped error", func() {
			Expect(err).To(MatchError(ContainSubstring("throttled")))
			Expect(errors.Is(err, expense.ErrMalformedResponse)).To(BeFalse())
		})
	})

	When("the response has no expense documents", func() {
		BeforeEach(func() {
			client.output = &textract.AnalyzeExpenseOutput{}
		})

		It("returns ErrMalformedResponse", func() {
			Expect(errors.Is(err, expense.ErrMalformedResponse)).To(BeTrue())
			Expect(result).To(BeNil())
		})
	})

	When("the response has no line item groups", func() {
		BeforeEach(func() {
			client.output.ExpenseDocuments[0].LineItemGroups = nil
		})

		It("returns ErrMalformedResponse", func() {
			Expect(errors.Is(err, expense.ErrMalformedResponse)).To(BeTrue())
		})
	})
})

var _ = Describe("FromAnalyzeExpense", func() {
	It("should carry labels and confidence", func() {
		doc, err := FromAnalyzeExpense(sampleOutput())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.SummaryFields[1]).To(Equal(expense.SummaryField{
			Type: "TOTAL", Label: "TOTAL", Value: "$12.50", Confidence: 90,
		}))
	})

	It("should reject a nil response", func() {
		_, err := FromAnalyzeExpense(nil)
		Expect(errors.Is(err, expense.ErrMalformedResponse)).To(BeTrue())
	})

	It("should reject a summary field without a type", func() {
		out := sampleOutput()
		out.ExpenseDocuments[0].SummaryFields[0].Type = nil
		_, err := FromAnalyzeExpense(out)
		Expect(errors.Is(err, expense.ErrMalformedResponse)).To(BeTrue())
	})

	It("should reject a line item field without a value", func() {
		out := sampleOutput()
		out.ExpenseDocuments[0].LineItemGroups[0].LineItems[0].LineItemExpenseFields[0].ValueDetection = nil
		_, err := FromAnalyzeExpense(out)
		Expect(errors.Is(err, expense.ErrMalformedResponse)).To(BeTrue())
	})

	It("should not read later documents", func() {
		out := sampleOutput()
		out.ExpenseDocuments = append(out.ExpenseDocuments, types.ExpenseDocument{
			SummaryFields: []types.ExpenseField{{}},
		})
		_, err := FromAnalyzeExpense(out)
		Expect(err).NotTo(HaveOccurred())
	})
})
