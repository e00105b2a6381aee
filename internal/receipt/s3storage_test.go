package receipt

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockS3 records objects written through the uploader and serves them back
type mockS3 struct {
	objects     map[string][]byte
	lastBucket  string
	uploadErr   error
	getErr      error
	deleteErr   error
	hadDeadline bool
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte)}
}

func (m *mockS3) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	_, m.hadDeadline = ctx.Deadline()
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.lastBucket = aws.ToString(input.Bucket)
	m.objects[aws.ToString(input.Key)] = data
	return &manager.UploadOutput{}, nil
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	delete(m.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

var _ = Describe("S3Storage", func() {
	var (
		client  *mockS3
		storage *S3Storage
	)

	BeforeEach(func() {
		client = newMockS3()
		storage = NewS3StorageWithClient(client, client, "receipts-bucket", "scans", time.Second)
	})

	Describe("Save", func() {
		It("uploads under the prefix and returns the bare key", func() {
			key, err := storage.Save("abc_receipt.jpg", []byte("image"))
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("abc_receipt.jpg"))
			Expect(client.objects).To(HaveKeyWithValue("scans/abc_receipt.jpg", []byte("image")))
			Expect(client.lastBucket).To(Equal("receipts-bucket"))
		})

		It("bounds the upload with a deadline", func() {
			_, err := storage.Save("abc_receipt.jpg", []byte("image"))
			Expect(err).NotTo(HaveOccurred())
			Expect(client.hadDeadline).To(BeTrue())
		})

		It("wraps upload errors", func() {
			client.uploadErr = errors.New("access denied")
			_, err := storage.Save("abc_receipt.jpg", []byte("image"))
			Expect(err).To(MatchError(ContainSubstring("s3 upload: access denied")))
		})
	})

	Describe("Get", func() {
		It("downloads a saved object", func() {
			_, err := storage.Save("abc_receipt.jpg", []byte("image"))
			Expect(err).NotTo(HaveOccurred())

			data, err := storage.Get("abc_receipt.jpg")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("image"))
		})

		It("wraps download errors", func() {
			_, err := storage.Get("missing.jpg")
			Expect(err).To(MatchError(ContainSubstring("s3 download")))
		})
	})

	Describe("Delete", func() {
		It("removes the object", func() {
			_, err := storage.Save("abc_receipt.jpg", []byte("image"))
			Expect(err).NotTo(HaveOccurred())

			Expect(storage.Delete("abc_receipt.jpg")).To(Succeed())
			Expect(client.objects).To(BeEmpty())
		})

		It("wraps delete errors", func() {
			client.deleteErr = errors.New("boom")
			Expect(storage.Delete("abc_receipt.jpg")).To(MatchError(ContainSubstring("s3 delete: boom")))
		})
	})

	When("no prefix is configured", func() {
		It("uses the file name as the key", func() {
			storage = NewS3StorageWithClient(client, client, "receipts-bucket", "", 0)
			_, err := storage.Save("abc_receipt.jpg", []byte("image"))
			Expect(err).NotTo(HaveOccurred())
			Expect(client.objects).To(HaveKey("abc_receipt.jpg"))
		})
	})
})
