package validator

import (
	"testing"

	"foodgram/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Tag(t *testing.T) {
	ok := domain.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}
	assert.Nil(t, Validate(ok))

	bad := domain.Tag{Name: "Lunch", Color: "E26C2D1", Slug: "lunch"}
	errs := Validate(bad)
	assert.Equal(t, "hexcolor", errs["Color"])

	missing := domain.Tag{Color: "#49B64E"}
	errs = Validate(missing)
	assert.Equal(t, "required", errs["Name"])
	assert.Equal(t, "required", errs["Slug"])
}
