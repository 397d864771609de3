package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/harshhujare/urban-frontend/domain"
)

// EncodeFilters renders the search state as a query string so a search is
// shareable and bookmarkable. Zero-valued filters are omitted; amenities
// join with commas.
func EncodeFilters(filters domain.PropertyFilters) (string, error) {
	if filters.IsZero() {
		return "", nil
	}
	values, err := query.Values(filters)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}

// DecodeFilters restores the search state from a page's query string, the
// inverse of EncodeFilters. Unknown parameters are ignored; malformed
// numbers fall back to unset.
func DecodeFilters(rawQuery string) (domain.PropertyFilters, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return domain.PropertyFilters{}, err
	}

	filters := domain.PropertyFilters{
		Query:    values.Get("q"),
		City:     values.Get("city"),
		MinPrice: atoiOrZero(values.Get("minPrice")),
		MaxPrice: atoiOrZero(values.Get("maxPrice")),
		Bedrooms: atoiOrZero(values.Get("bedrooms")),
		Guests:   atoiOrZero(values.Get("guests")),
		CheckIn:  values.Get("checkIn"),
		CheckOut: values.Get("checkOut"),
	}
	if raw := values.Get("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a != "" {
				filters.Amenities = append(filters.Amenities, a)
			}
		}
	}
	return filters, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
