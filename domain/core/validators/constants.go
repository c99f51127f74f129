// Package validators checks incoming metadata and resource payloads and
// reports every violation at once.
package validators

const (
	MsgValueMissing       = "should-have-value"
	MsgNotAllowed         = "should-not-have-value"
	MsgValueInvalid       = "invalid-value"
	MsgNotAllowedUpdate   = "not-allowed-update"
	MsgOverCharacterLimit = "value-over-character-limit."

	TextFieldMaxLength     = 150
	EmailFieldMaxLength    = 320
	TextAreaMaxLength      = 5000
	DocumentationMaxLength = 50000

	PrefixMinLength = 2
	PrefixMaxLength = 32

	PrefixRegex             = `^[a-z][a-z0-9-_]{1,31}$`
	ResourceIdentifierRegex = `^[a-zA-Z][a-zA-Z0-9-_]{1,119}$`
	// RFC 4646 subset: language, optional region and script.
	LanguageTagRegex = `^[a-z]{2,3}(?:-[A-Z]{2,3}(?:-[a-zA-Z]{4})?)?$`
)
