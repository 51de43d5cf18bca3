package helpers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"unicode"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const (
	TourFolder    = "roamly/tours"
	InvoiceFolder = "roamly/invoices"
	BlogFolder    = "roamly/blogs"
)

// IsPasswordStrong validates that the password is at least 8 characters
// long and contains an uppercase letter, a lowercase letter, a digit and
// a special character.
func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

// NewTransactionID returns a gateway transaction reference.
func NewTransactionID() string {
	return "tran_" + uuid.NewString()
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses runs of non-alphanumerics
// into single hyphens.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// UploadImages pushes every multipart file to cloudinary and returns the
// secure URLs in upload order.
func UploadImages(ctx context.Context, cld *cloudinary.Cloudinary, files []*multipart.FileHeader, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %v", fh.Filename, err)
		}

		res, err := cld.Upload.Upload(ctx, f, uploader.UploadParams{Folder: folder})
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("cloudinary upload failed for %s: %v", fh.Filename, err)
		}
		urls = append(urls, res.SecureURL)
	}
	return urls, nil
}

// UploadBuffer uploads in-memory content, used for generated invoices.
func UploadBuffer(ctx context.Context, cld *cloudinary.Cloudinary, data []byte, folder, publicID string) (string, error) {
	res, err := cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %v", err)
	}
	return res.SecureURL, nil
}

// DeleteByURL destroys the cloudinary asset behind a previously returned
// secure URL. Returns an error the caller is expected to only log.
func DeleteByURL(ctx context.Context, cld *cloudinary.Cloudinary, url string) error {
	publicID, ok := PublicIDFromURL(url)
	if !ok {
		return fmt.Errorf("not a cloudinary url: %s", url)
	}
	_, err := cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed for %s: %v", publicID, err)
	}
	return nil
}

var versionPrefix = regexp.MustCompile(`^v\d+/`)

// PublicIDFromURL extracts the public id from a cloudinary delivery URL:
// everything after /upload/, minus the version segment and the extension.
func PublicIDFromURL(url string) (string, bool) {
	const marker = "/upload/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}
	rest := url[idx+len(marker):]
	rest = versionPrefix.ReplaceAllString(rest, "")
	if dot := strings.LastIndex(rest, "."); dot > 0 {
		rest = rest[:dot]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
