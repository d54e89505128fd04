package sale

import (
	"fmt"
	"strings"
)

// Category tags a sale. The string value is what gets stored and compared,
// so filters and records must use these exact values.
type Category string

// The closed set of categories. Uncategorized sales carry the empty value.
const (
	CategoryNone         Category = ""
	CategoryMedia        Category = "فیلم و اهنگ"
	CategoryVPN          Category = "فیلتر شکن"
	CategoryAccount      Category = "اپل ایدی"
	CategoryAccessories  Category = "لوازم جانبی"
	CategorySocialMedia  Category = "خدمات اینستاگرام"
	CategoryDeviceUnlock Category = "قفل گوشی"
	CategoryOther        Category = "سایر"
)

var categories = []struct {
	value Category
	slug  string
}{
	{CategoryMedia, "media"},
	{CategoryVPN, "vpn"},
	{CategoryAccount, "account"},
	{CategoryAccessories, "accessories"},
	{CategorySocialMedia, "social-media"},
	{CategoryDeviceUnlock, "device-unlock"},
	{CategoryOther, "other"},
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = c.value
	}
	return out
}

// Slug returns the ASCII name of c, or "" for CategoryNone and unknown values.
func (c Category) Slug() string {
	for _, known := range categories {
		if known.value == c {
			return known.slug
		}
	}
	return ""
}

// Known reports whether c is one of the closed set (CategoryNone included).
func (c Category) Known() bool {
	return c == CategoryNone || c.Slug() != ""
}

// ParseCategory accepts a stored category value or its slug. Blank input
// yields CategoryNone.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryNone, nil
	}
	for _, known := range categories {
		if string(known.value) == s || known.slug == s {
			return known.value, nil
		}
	}
	return CategoryNone, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
