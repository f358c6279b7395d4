package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// Validation tags registered on the upload validator.
const (
	tagSupportedExt = "supported_ext"
	tagMaxBytes     = "max_bytes"
)

// uploadFields is the validated view of an upload.
type uploadFields struct {
	Name      string `validate:"required"`
	Extension string `validate:"supported_ext"`
	Size      int64  `validate:"max_bytes"`
}

// UploadValidator runs the pre-parse checks on uploads.
type UploadValidator struct {
	validate   *validator.Validate
	maxBytes   int64
	extensions []string
}

// NewUploadValidator creates a validator accepting the supported
// extensions up to maxBytes. A non-positive limit uses the default.
func NewUploadValidator(maxBytes int64) *UploadValidator {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultAppSettings().Upload.MaxSizeBytes
	}

	v := &UploadValidator{
		validate:   validator.New(),
		maxBytes:   maxBytes,
		extensions: domain.SupportedExtensions(),
	}

	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation(tagSupportedExt, func(fl validator.FieldLevel) bool {
		return slices.Contains(v.extensions, fl.Field().String())
	})
	_ = v.validate.RegisterValidation(tagMaxBytes, func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= v.maxBytes
	})

	return v
}

// MaxBytes returns the size limit.
func (v *UploadValidator) MaxBytes() int64 {
	return v.maxBytes
}

// Validate checks the extension and the declared size. The first
// failing check is returned as a *domain.ValidationError.
func (v *UploadValidator) Validate(upload domain.Upload) error {
	fields := uploadFields{
		Name:      strings.TrimSpace(upload.Name),
		Extension: upload.Extension(),
		Size:      upload.Size,
	}

	err := v.validate.Struct(fields)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("validate upload: %w", err)
	}

	// Name is checked first; an unnamed upload also fails the extension check.
	return v.toValidationError(errs[0])
}

func (v *UploadValidator) toValidationError(fe validator.FieldError) *domain.ValidationError {
	switch fe.Field() {
	case "Name":
		return &domain.ValidationError{
			Field:  "name",
			Reason: "No file provided.",
			Err:    domain.ErrEmptyUpload,
		}
	case "Extension":
		return &domain.ValidationError{
			Field:  "name",
			Reason: "Unsupported file format. Please upload: " + v.extensionList(),
			Err:    domain.ErrUnsupportedFormat,
		}
	default:
		return &domain.ValidationError{
			Field: "size",
			Reason: fmt.Sprintf("File size too large. Please upload a file smaller than %dMB.",
				domain.UploadSettings{MaxSizeBytes: v.maxBytes}.MaxSizeMB()),
			Err: domain.ErrFileTooLarge,
		}
	}
}

// extensionList renders ".pdf, .xlsx, .xls".
func (v *UploadValidator) extensionList() string {
	dotted := make([]string, len(v.extensions))
	for i, ext := range v.extensions {
		dotted[i] = "." + ext
	}
	return strings.Join(dotted, ", ")
}
