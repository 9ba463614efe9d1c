package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yishak-cs/bites/internal/models"
)

// NewValidator returns a validator with the rules used by the command types.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("lnglat", func(fl validator.FieldLevel) bool {
		_, _, err := ParseLocation(fl.Field().String())
		return err == nil
	})
	return v
}

// ParseLocation decodes a "longitude,latitude" pair.
func ParseLocation(location string) (lng, lat float64, err error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("location %q is not longitude,latitude", location)
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("invalid longitude in %q", location)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid latitude in %q", location)
	}
	return lng, lat, nil
}

func validate(v *validator.Validate, cmd interface{}) error {
	if err := v.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}

func validateID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id is required", models.ErrValidation, kind)
	}
	return nil
}

// pageRange converts a 1-based page into inclusive store range bounds,
// so consecutive pages never overlap. ok is false for a page so far out that
// its bounds do not fit in int64; such a page is empty.
func pageRange(q models.PageQuery) (start, stop int64, ok bool) {
	limit := int64(q.Limit)
	if int64(q.Page-1) > (math.MaxInt64-limit)/limit {
		return 0, 0, false
	}
	start = int64(q.Page-1) * limit
	stop = start + limit - 1
	return start, stop, true
}
