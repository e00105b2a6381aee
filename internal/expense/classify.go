package expense

import "sort"

// Bucket is a semantic grouping of summary fields
type Bucket string

const (
	BucketNone           Bucket = ""
	BucketVendor         Bucket = "VENDOR"
	BucketReceiptDetails Bucket = "RECEIPT_DETAILS"
	BucketCustomer       Bucket = "CUSTOMER"
)

// Buckets lists the recognized buckets in display order
var Buckets = []Bucket{BucketVendor, BucketReceiptDetails, BucketCustomer}

var bucketTags = map[Bucket][]string{
	BucketVendor: {
		"VENDOR_NAME",
		"VENDOR_ADDRESS",
		"VENDOR_GST_NUMBER",
		"VENDOR_PHONE",
	},
	BucketReceiptDetails: {
		"AMOUNT_PAID",
		"INVOICE_RECEIPT_DATE",
		"INVOICE_RECEIPT_ID",
		"SERVICE_CHARGE",
		"SUBTOTAL",
		"TAX",
		"TOTAL",
	},
	BucketCustomer: {
		"TAX_PAYER_ID",
		"RECEIVER_NAME",
	},
}

// classification is built once from bucketTags and only read afterwards
var classification = func() map[string]Bucket {
	m := make(map[string]Bucket)
	for bucket, tags := range bucketTags {
		for _, tag := range tags {
			m[tag] = bucket
		}
	}
	return m
}()

// Classify returns the bucket a summary field tag belongs to, or BucketNone
func Classify(tag string) Bucket {
	return classification[tag]
}

// Tags returns the sorted tags recognized for a bucket
func Tags(bucket Bucket) []string {
	tags := append([]string(nil), bucketTags[bucket]...)
	sort.Strings(tags)
	return tags
}
