package i18n

import "errors"

var (
	// ErrNoLocales is returned by NewRouter without supported locales.
	ErrNoLocales = errors.New("i18n: no supported locales configured")

	// ErrInvalidLocale is returned for a supported locale that is not a BCP 47 tag.
	ErrInvalidLocale = errors.New("i18n: invalid locale tag")

	// ErrDefaultNotSupported is returned when the default locale is not supported.
	ErrDefaultNotSupported = errors.New("i18n: default locale is not in the supported list")

	// ErrInvalidBypassPrefix is returned for a bypass prefix without a leading slash.
	ErrInvalidBypassPrefix = errors.New("i18n: bypass prefix must start with /")
)
