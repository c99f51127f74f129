package validators

import (
	"context"
	"slices"
	"unicode/utf8"

	"yti-common/domain/core/entities"
	"yti-common/pkg/common"
)

// GraphChecker tells whether a graph is already stored.
type GraphChecker interface {
	GraphExists(ctx context.Context, graph string) (bool, error)
}

// ReferenceData lists the organizations and service categories metadata
// may point to. Implemented by services.FrontendService.
type ReferenceData interface {
	Organizations(ctx context.Context, sortLang string, includeChildOrganizations bool) ([]entities.Organization, error)
	ServiceCategories(ctx context.Context, sortLang string) ([]entities.ServiceCategory, error)
}

// MetaDataValidator validates the metadata of graphs created under
// namespace, e.g. https://iri.suomi.fi/model/.
type MetaDataValidator struct {
	BaseValidator
	namespace string
	graphs    GraphChecker
	reference ReferenceData
}

func NewMetaDataValidator(namespace string, graphs GraphChecker, reference ReferenceData) *MetaDataValidator {
	return &MetaDataValidator{namespace: namespace, graphs: graphs, reference: reference}
}

// Validate runs every metadata check on a fresh violation list, so one
// MetaDataValidator can serve concurrent requests. The returned error is a
// *errors.ValidationErrors when only violations were found.
func (v *MetaDataValidator) Validate(ctx context.Context, metadata entities.MetaData, update bool) error {
	run := &MetaDataValidator{namespace: v.namespace, graphs: v.graphs, reference: v.reference}
	return run.validate(ctx, metadata, update)
}

func (v *MetaDataValidator) validate(ctx context.Context, metadata entities.MetaData, update bool) error {
	if err := v.CheckModelPrefix(ctx, metadata, update); err != nil {
		return err
	}
	v.CheckLabels(metadata)
	v.CheckDescription(metadata)
	v.CheckLanguages(metadata)
	if err := v.CheckOrganizations(ctx, metadata); err != nil {
		return err
	}
	if err := v.CheckGroups(ctx, metadata); err != nil {
		return err
	}
	v.CheckContact(metadata)
	return v.Err()
}

// CheckModelPrefix validates the prefix and flags a prefix whose graph
// already exists.
func (v *MetaDataValidator) CheckModelPrefix(ctx context.Context, metadata entities.MetaData, update bool) error {
	const property = "prefix"
	v.CheckPrefix(metadata.Prefix, property, update)

	if update || metadata.Prefix == "" {
		return nil
	}
	exists, err := v.graphs.GraphExists(ctx, v.namespace+metadata.Prefix+"/")
	if err != nil {
		return err
	}
	if exists {
		v.AddViolation("prefix-in-use", property)
	}
	return nil
}

// CheckPrefix validates a prefix. A prefix may not be given on update.
func (v *MetaDataValidator) CheckPrefix(value, property string, update bool) {
	switch {
	case update && value != "":
		v.AddViolation(MsgNotAllowedUpdate, property)
	case !update && common.IsBlank(value):
		v.AddViolation(MsgValueMissing, property)
	case value == "":
	case !matches(value, "prefix"):
		v.AddViolation(MsgValueInvalid, property)
	case len(value) < PrefixMinLength || len(value) > PrefixMaxLength:
		v.AddViolation(property+"-character-count-mismatch", property)
	}
}

// CheckLabels requires a label in every language of the metadata and no
// others.
func (v *MetaDataValidator) CheckLabels(metadata entities.MetaData) {
	const property = "label"
	v.CheckRequiredLocalizedValue(metadata.Label, property)

	if len(metadata.Label) != len(metadata.Languages) {
		v.AddViolation("label-language-count-mismatch", property)
		return
	}
	for _, lang := range sortedKeys(metadata.Label) {
		if !slices.Contains(metadata.Languages, lang) {
			v.AddViolation("language-not-in-language-list."+lang, property)
		}
		v.CheckCommonTextField(metadata.Label[lang], property)
	}
}

func (v *MetaDataValidator) CheckDescription(metadata entities.MetaData) {
	const property = "description"
	for _, lang := range sortedKeys(metadata.Description) {
		if !slices.Contains(metadata.Languages, lang) {
			v.AddViolation("language-not-in-language-list."+lang, property)
		}
		v.CheckCommonTextArea(metadata.Description[lang], property)
	}
}

// CheckOrganizations requires at least one organization, each known to the
// directory.
func (v *MetaDataValidator) CheckOrganizations(ctx context.Context, metadata entities.MetaData) error {
	if len(metadata.Organizations) == 0 {
		v.AddViolation(MsgValueMissing, "organization")
		return nil
	}

	existing, err := v.reference.Organizations(ctx, "en", true)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, org := range existing {
		known[org.ID] = true
	}
	for _, org := range metadata.Organizations {
		if !known[org.String()] {
			v.AddViolation("does-not-exist."+org.String(), "organizations")
		}
	}
	return nil
}

func (v *MetaDataValidator) CheckLanguages(metadata entities.MetaData) {
	if len(metadata.Languages) == 0 {
		v.AddViolation(MsgValueMissing, "languages")
		return
	}
	v.CheckLanguageTags(metadata.Languages, "languages")
}

// CheckLanguageTags flags every tag that is not an RFC 4646 language tag.
func (v *MetaDataValidator) CheckLanguageTags(languages []string, property string) {
	for _, lang := range languages {
		if !matches(lang, "languagetag") {
			v.AddViolation("does-not-match-rfc-4646", property)
		}
	}
}

// CheckGroups requires at least one service category, each an existing one.
func (v *MetaDataValidator) CheckGroups(ctx context.Context, metadata entities.MetaData) error {
	const property = "groups"
	if len(metadata.Groups) == 0 {
		v.AddViolation(MsgValueMissing, property)
		return nil
	}

	existing, err := v.reference.ServiceCategories(ctx, "en")
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, category := range existing {
		known[category.Identifier] = true
	}
	for _, group := range metadata.Groups {
		if !known[group] {
			v.AddViolation("does-not-exist."+group, property)
		}
	}
	return nil
}

func (v *MetaDataValidator) CheckContact(metadata entities.MetaData) {
	if utf8.RuneCountInString(metadata.Contact) > EmailFieldMaxLength {
		v.AddViolation(MsgOverCharacterLimit, "contact")
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
