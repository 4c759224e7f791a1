package response

import (
	"library-backend/internal/pkg/errs"

	"github.com/jinzhu/copier"
)

// copyAs maps a read model onto a response DTO by matching field names.
func copyAs[T any](src any) (T, error) {
	var dst T
	if err := copier.Copy(&dst, src); err != nil {
		return dst, errs.Wrap(err, "failed to map response")
	}
	return dst, nil
}
