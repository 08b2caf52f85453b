// Package i18n provides the localized messages returned by action endpoints.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Locale is a supported message locale.
type Locale string

const (
	English Locale = "en"
	Turkish Locale = "tr"

	DefaultLocale = English
)

// Key identifies a translatable message.
type Key string

const (
	OrderDetailSuccess          Key = "action.order_detail.success"
	OrderListSuccess            Key = "action.order_list.success"
	ErrorUnauthorized           Key = "action.order_detail.error.unauthorized"
	ErrorOrderNotFound          Key = "action.order_detail.error.order_not_found"
	ErrorInvalidSignature       Key = "action.order_detail.error.invalid_signature"
	ErrorMissingFields          Key = "action.order_detail.error.missing_fields"
	ErrorFailed                 Key = "action.order_detail.error.failed"
	ErrorUnableToAuthenticate   Key = "page.order_detail.error.unable_to_authenticate"
	ErrorNoOrderID              Key = "page.order_detail.error.no_order_id"
	ErrorDashboardOrderNotFound Key = "page.order_detail.error.not_found"
	ErrorDashboardFailed        Key = "page.order_detail.error.failed"
)

var supported = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(supported)

var translations = map[Locale]map[Key]string{
	English: {
		OrderDetailSuccess:          "Order details retrieved successfully",
		OrderListSuccess:            "%d orders retrieved successfully",
		ErrorUnauthorized:           "Unauthorized",
		ErrorOrderNotFound:          "Order not found",
		ErrorInvalidSignature:       "Invalid signature",
		ErrorMissingFields:          "Missing required fields",
		ErrorFailed:                 "Failed to process action",
		ErrorUnableToAuthenticate:   "Unable to authenticate",
		ErrorNoOrderID:              "No order ID provided",
		ErrorDashboardOrderNotFound: "Order not found",
		ErrorDashboardFailed:        "Failed to load order details",
	},
	Turkish: {
		OrderDetailSuccess:          "Sipariş detayları başarıyla alındı",
		OrderListSuccess:            "%d sipariş başarıyla alındı",
		ErrorUnauthorized:           "Yetkisiz erişim",
		ErrorOrderNotFound:          "Sipariş bulunamadı",
		ErrorInvalidSignature:       "Geçersiz imza",
		ErrorMissingFields:          "Eksik zorunlu alanlar",
		ErrorFailed:                 "İşlem başarısız oldu",
		ErrorUnableToAuthenticate:   "Kimlik doğrulanamadı",
		ErrorNoOrderID:              "Sipariş ID'si belirtilmedi",
		ErrorDashboardOrderNotFound: "Sipariş bulunamadı",
		ErrorDashboardFailed:        "Sipariş detayları yüklenemedi",
	},
}

// Normalize maps an arbitrary locale string (e.g. "tr", "TR", "tr-TR") onto
// a supported Locale, falling back to English.
func Normalize(locale string) Locale {
	if locale == "" {
		return DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}

	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultLocale
	}

	base, _ := supported[index].Base()

	return Locale(base.String())
}

// FromAcceptLanguage picks the supported locale that best matches an
// Accept-Language header value, falling back to English.
func FromAcceptLanguage(header string) Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}

	base, _ := supported[index].Base()

	return Locale(base.String())
}

// IsSupported reports whether locale names one of the supported locales exactly.
func IsSupported(locale string) bool {
	_, ok := translations[Locale(locale)]

	return ok
}

// T returns the message for key in locale. Missing translations fall back
// to English, and unknown keys to the key itself. Optional args are applied
// with fmt.Sprintf.
func T(key Key, locale string, args ...any) string {
	message, ok := translations[Normalize(locale)][key]
	if !ok {
		message, ok = translations[DefaultLocale][key]
	}

	if !ok {
		return string(key)
	}

	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}

	return message
}
