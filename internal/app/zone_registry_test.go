package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

func newTestRegistry(users ...string) *ZoneRegistry {
	return NewZoneRegistry(ZoneRegistryConfig{AuthorizedUsers: users, Logger: discardLogger()})
}

func mustCreate(t *testing.T, r *ZoneRegistry, props domain.ZoneProperties) *domain.GovernanceZone {
	t.Helper()

	zone, err := r.Create(context.Background(), "erin", props)
	require.NoError(t, err)

	return zone
}

func TestZoneRegistry_Authorize(t *testing.T) {
	tests := []struct {
		name     string
		users    []string
		userID   string
		wantCode domain.ErrorCode
	}{
		{name: "open registry", userID: "anyone"},
		{name: "listed user", users: []string{"erin"}, userID: "erin"},
		{name: "empty user", userID: "", wantCode: domain.CodeNullUserID},
		{name: "unlisted user", users: []string{"erin"}, userID: "peter", wantCode: domain.CodeUserNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestRegistry(tt.users...).Authorize(tt.userID, domain.OpFetchZone)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var ua *domain.UnauthorizedError
			require.ErrorAs(t, err, &ua)
			assert.Equal(t, tt.wantCode, ua.Code)
			assert.Equal(t, domain.OpFetchZone, ua.Operation)
		})
	}
}

func TestZoneRegistry_Create(t *testing.T) {
	r := newTestRegistry()

	zone := mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance", DisplayName: "Finance"})

	assert.NotEmpty(t, zone.GUID)
	assert.Equal(t, domain.ZoneStatusDraft, zone.Status)
	assert.Equal(t, 1, r.Len())

	t.Run("duplicate name", func(t *testing.T) {
		_, err := r.Create(context.Background(), "erin", domain.ZoneProperties{QualifiedName: "zone.finance"})

		var dup *domain.DuplicateValueError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, domain.CodeDuplicateZoneName, dup.Code)
		require.Len(t, dup.Duplicates, 1)
		assert.Equal(t, zone.GUID, dup.Duplicates[0].GUID)
		assert.Equal(t, domain.ZoneTypeName, dup.Duplicates[0].TypeName)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := r.Create(context.Background(), "erin", domain.ZoneProperties{QualifiedName: "  "})

		var ip *domain.InvalidParameterError
		require.ErrorAs(t, err, &ip)
		assert.Equal(t, domain.CodeNullName, ip.Code)
		assert.Equal(t, "qualifiedName", ip.ParameterName)
	})
}

func TestZoneRegistry_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("merge keeps unset fields", func(t *testing.T) {
		r := newTestRegistry()
		zone := mustCreate(t, r, domain.ZoneProperties{
			QualifiedName:        "zone.finance",
			Description:          "money",
			AdditionalProperties: map[string]string{"a": "1"},
		})

		err := r.Update(ctx, "erin", zone.GUID, domain.ZoneProperties{
			DisplayName:          "Finance",
			AdditionalProperties: map[string]string{"b": "2"},
		}, true)
		require.NoError(t, err)

		got, err := r.Get(ctx, "erin", zone.GUID)
		require.NoError(t, err)
		assert.Equal(t, "zone.finance", got.Properties.QualifiedName)
		assert.Equal(t, "money", got.Properties.Description)
		assert.Equal(t, "Finance", got.Properties.DisplayName)
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got.Properties.AdditionalProperties)
	})

	t.Run("replace overwrites every field", func(t *testing.T) {
		r := newTestRegistry()
		zone := mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance", Description: "money"})

		err := r.Update(ctx, "erin", zone.GUID, domain.ZoneProperties{QualifiedName: "zone.money"}, false)
		require.NoError(t, err)

		got, err := r.Get(ctx, "erin", zone.GUID)
		require.NoError(t, err)
		assert.Equal(t, "zone.money", got.Properties.QualifiedName)
		assert.Empty(t, got.Properties.Description)
	})

	t.Run("replace without a name", func(t *testing.T) {
		r := newTestRegistry()
		zone := mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance"})

		err := r.Update(ctx, "erin", zone.GUID, domain.ZoneProperties{Description: "x"}, false)
		assert.True(t, domain.IsInvalidParameter(err))
	})

	t.Run("rename onto another zone", func(t *testing.T) {
		r := newTestRegistry()
		mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance"})
		hr := mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.hr"})

		err := r.Update(ctx, "erin", hr.GUID, domain.ZoneProperties{QualifiedName: "zone.finance"}, true)
		assert.True(t, domain.IsDuplicateValue(err))
	})

	t.Run("unknown zone", func(t *testing.T) {
		r := newTestRegistry()

		err := r.Update(ctx, "erin", "nope", domain.ZoneProperties{QualifiedName: "zone.x"}, false)

		var ui *domain.UnrecognizedIdentifierError
		require.ErrorAs(t, err, &ui)
		assert.Equal(t, "nope", ui.Identifier)
		assert.Equal(t, domain.OpUpdateZone, ui.Operation)
	})
}

func TestZoneRegistry_SetStatus(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	zone := mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance"})

	require.NoError(t, r.SetStatus(ctx, "erin", zone.GUID, domain.ZoneStatusActive))

	got, err := r.Get(ctx, "erin", zone.GUID)
	require.NoError(t, err)
	assert.Equal(t, domain.ZoneStatusActive, got.Status)

	err = r.SetStatus(ctx, "erin", zone.GUID, domain.ZoneStatusUnset)

	var ip *domain.InvalidParameterError
	require.ErrorAs(t, err, &ip)
	assert.Equal(t, domain.CodeNullEnum, ip.Code)
}

func TestZoneRegistry_Delete(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	zone := mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance"})

	require.NoError(t, r.Delete(ctx, "erin", zone.GUID))
	assert.Equal(t, 0, r.Len())

	err := r.Delete(ctx, "erin", zone.GUID)
	assert.True(t, domain.IsUnrecognizedIdentifier(err))

	_, err = r.Get(ctx, "erin", zone.GUID)
	assert.True(t, domain.IsUnrecognizedIdentifier(err))
}

func TestZoneRegistry_FindByName(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance.emea"})
	mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.finance.apac"})
	mustCreate(t, r, domain.ZoneProperties{QualifiedName: "zone.hr", DisplayName: "People"})

	tests := []struct {
		name      string
		pattern   string
		startFrom int
		pageSize  int
		want      []string
	}{
		{name: "prefix", pattern: "^zone\\.finance", want: []string{"zone.finance.apac", "zone.finance.emea"}},
		{name: "display name", pattern: "People", want: []string{"zone.hr"}},
		{name: "paged", pattern: "zone", startFrom: 1, pageSize: 1, want: []string{"zone.finance.emea"}},
		{name: "past the end", pattern: "zone", startFrom: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindByName(ctx, "erin", tt.pattern, tt.startFrom, tt.pageSize)
			require.NoError(t, err)

			names := make([]string, 0, len(got))
			for _, z := range got {
				names = append(names, z.Properties.QualifiedName)
			}

			assert.Equal(t, tt.want, names)
		})
	}

	t.Run("bad pattern", func(t *testing.T) {
		_, err := r.FindByName(ctx, "erin", "([", 0, 0)

		var ip *domain.InvalidParameterError
		require.ErrorAs(t, err, &ip)
		assert.Equal(t, domain.CodeInvalidRequestBody, ip.Code)
		assert.Equal(t, "name", ip.ParameterName)
	})
}

func TestZoneRegistry_ListForDomain(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	mustCreate(t, r, domain.ZoneProperties{QualifiedName: "a", DomainIdentifier: 1})
	mustCreate(t, r, domain.ZoneProperties{QualifiedName: "b", DomainIdentifier: 2})
	mustCreate(t, r, domain.ZoneProperties{QualifiedName: "c", DomainIdentifier: 1})

	got, err := r.ListForDomain(ctx, "erin", 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Properties.QualifiedName)
	assert.Equal(t, "c", got[1].Properties.QualifiedName)

	got, err = r.ListForDomain(ctx, "erin", 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = newTestRegistry("peter").ListForDomain(ctx, "erin", 0, 0, 0)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestZoneRegistry_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	zone := mustCreate(t, r, domain.ZoneProperties{
		QualifiedName:        "zone.finance",
		AdditionalProperties: map[string]string{"a": "1"},
	})

	zone.Properties.AdditionalProperties["a"] = "changed"
	zone.Status = domain.ZoneStatusDeprecated

	got, err := r.Get(ctx, "erin", zone.GUID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.Properties.AdditionalProperties["a"])
	assert.Equal(t, domain.ZoneStatusDraft, got.Status)
}
