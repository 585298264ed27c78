package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"strefex/pkg/apperror"
	"gorm.io/gorm"
)

func TestListParamsNormalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := ListParams{}.Normalize()
		require.Equal(t, 1, p.Page)
		require.Equal(t, DefaultPerPage, p.PerPage)
		require.Equal(t, 0, p.Offset())
	})

	t.Run("caps per page", func(t *testing.T) {
		p := ListParams{Page: 2, PerPage: 500}.Normalize()
		require.Equal(t, MaxPerPage, p.PerPage)
		require.Equal(t, MaxPerPage, p.Offset())
	})

	t.Run("negative page", func(t *testing.T) {
		p := ListParams{Page: -3, PerPage: 10}.Normalize()
		require.Equal(t, 1, p.Page)
		require.Equal(t, 0, p.Offset())
	})

	t.Run("second page offset", func(t *testing.T) {
		p := ListParams{Page: 2, PerPage: 20}.Normalize()
		require.Equal(t, 20, p.Offset())
	})
}

func TestTranslate(t *testing.T) {
	t.Run("record not found", func(t *testing.T) {
		err := translate(gorm.ErrRecordNotFound, "project")
		require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		require.Equal(t, "project not found", err.Error())
	})

	t.Run("duplicated key", func(t *testing.T) {
		err := translate(gorm.ErrDuplicatedKey, "user")
		require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("nil", func(t *testing.T) {
		require.NoError(t, translate(nil, "project"))
	})
}
