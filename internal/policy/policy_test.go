package policy

import (
	"context"
	"errors"
	"testing"

	"kiosk-report/internal/model"

	"github.com/stretchr/testify/require"
)

func ptr(i int) *int { return &i }

func wards(m map[int]int) WardLookup {
	return func(_ context.Context, id int) (*model.Ward, error) {
		city, ok := m[id]
		if !ok {
			return nil, nil
		}
		return &model.Ward{ID: id, CityID: city}, nil
	}
}

func TestRequireAdmin(t *testing.T) {
	require.NoError(t, RequireAdmin(Scope{Role: model.RoleAdmin}))
	require.ErrorIs(t, RequireAdmin(Scope{Role: model.RoleCity}), ErrForbidden)
	require.ErrorIs(t, RequireAdmin(Scope{Role: model.RoleWard}), ErrForbidden)
}

func TestUserFilter(t *testing.T) {
	v, err := UserFilter(Scope{Role: model.RoleAdmin, UserID: 1})
	require.NoError(t, err)
	require.True(t, v.All)

	v, err = UserFilter(Scope{Role: model.RoleCity, UserID: 2, CityID: ptr(7)})
	require.NoError(t, err)
	require.False(t, v.All)
	require.Equal(t, 7, *v.CityID)
	require.Equal(t, 2, v.SelfID)

	_, err = UserFilter(Scope{Role: model.RoleCity, UserID: 2})
	require.ErrorIs(t, err, ErrForbidden)

	v, err = UserFilter(Scope{Role: model.RoleWard, UserID: 3, CityID: ptr(7), WardID: ptr(70)})
	require.NoError(t, err)
	require.True(t, v.SelfOnly)
	require.Equal(t, 3, v.SelfID)

	_, err = UserFilter(Scope{Role: "root"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestResolveReportScope(t *testing.T) {
	ctx := context.Background()
	lookup := wards(map[int]int{10: 1, 11: 1, 20: 2})

	t.Run("admin all", func(t *testing.T) {
		s, err := ResolveReportScope(ctx, Scope{Role: model.RoleAdmin}, nil, lookup)
		require.NoError(t, err)
		require.Nil(t, s.CityID)
		require.Nil(t, s.WardID)
	})

	t.Run("admin narrowed", func(t *testing.T) {
		s, err := ResolveReportScope(ctx, Scope{Role: model.RoleAdmin}, ptr(20), lookup)
		require.NoError(t, err)
		require.Equal(t, 20, *s.WardID)
		require.Nil(t, s.CityID)
	})

	t.Run("non-positive ward ignored", func(t *testing.T) {
		s, err := ResolveReportScope(ctx, Scope{Role: model.RoleAdmin}, ptr(0), lookup)
		require.NoError(t, err)
		require.Nil(t, s.WardID)
	})

	t.Run("city own city", func(t *testing.T) {
		s, err := ResolveReportScope(ctx, Scope{Role: model.RoleCity, CityID: ptr(1)}, nil, lookup)
		require.NoError(t, err)
		require.Equal(t, 1, *s.CityID)
		require.Nil(t, s.WardID)
	})

	t.Run("city ward in city", func(t *testing.T) {
		s, err := ResolveReportScope(ctx, Scope{Role: model.RoleCity, CityID: ptr(1)}, ptr(11), lookup)
		require.NoError(t, err)
		require.Equal(t, 1, *s.CityID)
		require.Equal(t, 11, *s.WardID)
	})

	t.Run("city ward outside city", func(t *testing.T) {
		_, err := ResolveReportScope(ctx, Scope{Role: model.RoleCity, CityID: ptr(1)}, ptr(20), lookup)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("city unknown ward", func(t *testing.T) {
		_, err := ResolveReportScope(ctx, Scope{Role: model.RoleCity, CityID: ptr(1)}, ptr(99), lookup)
		require.ErrorIs(t, err, ErrUnitNotFound)
	})

	t.Run("city lookup failure", func(t *testing.T) {
		failing := func(context.Context, int) (*model.Ward, error) { return nil, errors.New("db down") }
		_, err := ResolveReportScope(ctx, Scope{Role: model.RoleCity, CityID: ptr(1)}, ptr(10), failing)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrForbidden)
		require.NotErrorIs(t, err, ErrUnitNotFound)
	})

	t.Run("ward always own ward", func(t *testing.T) {
		caller := Scope{Role: model.RoleWard, CityID: ptr(1), WardID: ptr(10)}
		for _, req := range []*int{nil, ptr(10), ptr(11), ptr(20)} {
			s, err := ResolveReportScope(ctx, caller, req, lookup)
			require.NoError(t, err)
			require.Equal(t, 10, *s.WardID)
		}
	})

	t.Run("missing scope in token", func(t *testing.T) {
		_, err := ResolveReportScope(ctx, Scope{Role: model.RoleWard}, nil, lookup)
		require.ErrorIs(t, err, ErrForbidden)
		_, err = ResolveReportScope(ctx, Scope{Role: model.RoleCity}, nil, lookup)
		require.ErrorIs(t, err, ErrForbidden)
		_, err = ResolveReportScope(ctx, Scope{Role: "guest"}, nil, lookup)
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestNormalizeScope(t *testing.T) {
	city, ward, err := NormalizeScope(model.RoleAdmin, ptr(1), ptr(2))
	require.NoError(t, err)
	require.Nil(t, city)
	require.Nil(t, ward)

	city, ward, err = NormalizeScope(model.RoleCity, ptr(1), ptr(2))
	require.NoError(t, err)
	require.Equal(t, 1, *city)
	require.Nil(t, ward)

	_, _, err = NormalizeScope(model.RoleCity, nil, nil)
	require.ErrorIs(t, err, ErrMissingScope)
	_, _, err = NormalizeScope(model.RoleCity, ptr(0), nil)
	require.ErrorIs(t, err, ErrMissingScope)

	city, ward, err = NormalizeScope(model.RoleWard, ptr(1), ptr(2))
	require.NoError(t, err)
	require.Equal(t, 1, *city)
	require.Equal(t, 2, *ward)

	_, _, err = NormalizeScope(model.RoleWard, ptr(1), nil)
	require.ErrorIs(t, err, ErrMissingScope)
	_, _, err = NormalizeScope(model.RoleWard, nil, ptr(2))
	require.ErrorIs(t, err, ErrMissingScope)

	_, _, err = NormalizeScope("superuser", nil, nil)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestCheckWardCity(t *testing.T) {
	ctx := context.Background()
	lookup := wards(map[int]int{10: 1, 20: 2})

	require.NoError(t, CheckWardCity(ctx, 1, 10, lookup))
	require.ErrorIs(t, CheckWardCity(ctx, 1, 20, lookup), ErrWardMismatch)
	require.ErrorIs(t, CheckWardCity(ctx, 1, 99, lookup), ErrUnitNotFound)

	failing := func(context.Context, int) (*model.Ward, error) { return nil, errors.New("db down") }
	require.ErrorContains(t, CheckWardCity(ctx, 1, 10, failing), "db down")
}
