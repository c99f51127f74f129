package entities

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yti-common/domain/core/valueobjects"
)

func TestMetaDataJSON(t *testing.T) {
	orgID := uuid.New()
	body := `{"prefix":"test","label":{"fi":"Testi"},"graphType":"LIBRARY","status":"DRAFT",` +
		`"languages":["fi"],"organizations":["` + orgID.String() + `"],"groups":["P11"]}`

	var m MetaData
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	assert.Equal(t, valueobjects.GraphTypeLibrary, m.GraphType)
	assert.Equal(t, valueobjects.StatusDraft, m.Status)
	assert.Equal(t, []uuid.UUID{orgID}, m.Organizations)
}

func TestGroupManagementUserJSON(t *testing.T) {
	body := `{"id":"4ce70937-6fa4-49af-a229-b5f10328adb8","email":"a@b.fi","firstName":"Test",` +
		`"lastName":"User","removedDateTime":"2023-05-01T10:00:00"}`

	var u GroupManagementUser
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	assert.Equal(t, "Test User", u.FullName())
	assert.Equal(t, "2023-05-01T10:00:00", u.RemovedDateTime)
}

func TestCreationInfoHolder(t *testing.T) {
	info := &MetaDataInfo{}
	var holder CreationInfoHolder = info
	holder.CreationInfo().Creator = &User{ID: "x"}
	assert.Equal(t, "x", info.Creator.ID)
}
