package entities

import (
	"github.com/google/uuid"

	"yti-common/domain/core/valueobjects"
)

// BaseDTO is embedded by resource payloads.
type BaseDTO struct {
	Identifier    string `json:"identifier"`
	EditorialNote string `json:"editorialNote,omitempty"`
}

// ResourceDTO is the editable part of a resource inside a graph.
type ResourceDTO struct {
	BaseDTO
	Label   map[string]string `json:"label"`
	Note    map[string]string `json:"note,omitempty"`
	Subject string            `json:"subject,omitempty"`
}

// MetaData is the editable metadata of a data model or terminology graph.
type MetaData struct {
	Prefix        string                 `json:"prefix"`
	Label         map[string]string      `json:"label"`
	Description   map[string]string      `json:"description"`
	GraphType     valueobjects.GraphType `json:"graphType,omitempty"`
	Languages     []string               `json:"languages"`
	Status        valueobjects.Status    `json:"status,omitempty"`
	Organizations []uuid.UUID            `json:"organizations"`
	Groups        []string               `json:"groups"`
	Contact       string                 `json:"contact,omitempty"`
}

// User is the display form of a creator or modifier.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ResourceCommonInfo is shared by every read model of a graph or resource.
type ResourceCommonInfo struct {
	URI      string            `json:"uri"`
	Label    map[string]string `json:"label"`
	Created  string            `json:"created,omitempty"`
	Modified string            `json:"modified,omitempty"`
	Creator  *User             `json:"creator,omitempty"`
	Modifier *User             `json:"modifier,omitempty"`
}

// CreationInfo gives mappers access to the creator and modifier fields.
func (r *ResourceCommonInfo) CreationInfo() *ResourceCommonInfo {
	return r
}

// CreationInfoHolder is implemented by every type embedding ResourceCommonInfo.
type CreationInfoHolder interface {
	CreationInfo() *ResourceCommonInfo
}

// MetaDataInfo is the read model of graph metadata.
type MetaDataInfo struct {
	ResourceCommonInfo
	Prefix        string                 `json:"prefix"`
	GraphType     valueobjects.GraphType `json:"graphType,omitempty"`
	Languages     []string               `json:"languages"`
	Description   map[string]string      `json:"description"`
	Status        valueobjects.Status    `json:"status,omitempty"`
	Organizations []Organization         `json:"organizations"`
	Groups        []ServiceCategory      `json:"groups"`
	Contact       string                 `json:"contact,omitempty"`
}

// ResourceInfoBase is the read model of a resource inside a graph.
type ResourceInfoBase struct {
	ResourceCommonInfo
	EditorialNote string              `json:"editorialNote,omitempty"`
	Status        valueobjects.Status `json:"status,omitempty"`
	Identifier    string              `json:"identifier"`
	Contributor   []Organization      `json:"contributor,omitempty"`
	Contact       string              `json:"contact,omitempty"`
}

// Organization as shown to clients. ParentOrganization is nil for top level
// organizations.
type Organization struct {
	ID                 string            `json:"id"`
	Label              map[string]string `json:"label"`
	ParentOrganization *uuid.UUID        `json:"parentOrganization,omitempty"`
}

// ServiceCategory is a top level information domain.
type ServiceCategory struct {
	ID         string            `json:"id"`
	Label      map[string]string `json:"label"`
	Identifier string            `json:"identifier"`
}

// GroupManagementUser as returned by the directory service.
type GroupManagementUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	// Local date time without zone, e.g. 2023-05-01T10:00:00.
	RemovedDateTime string `json:"removedDateTime,omitempty"`
}

// FullName joins first and last name.
func (u GroupManagementUser) FullName() string {
	return u.FirstName + " " + u.LastName
}

// GroupManagementOrganization as returned by the directory service.
type GroupManagementOrganization struct {
	UUID        uuid.UUID         `json:"uuid"`
	PrefLabel   map[string]string `json:"prefLabel"`
	Description map[string]string `json:"description"`
	URL         string            `json:"url"`
	ParentID    *uuid.UUID        `json:"parentId,omitempty"`
}

// GroupManagementUserRequest is a pending role request of a user.
type GroupManagementUserRequest struct {
	OrganizationID uuid.UUID `json:"organizationId"`
	Role           []string  `json:"role"`
}
