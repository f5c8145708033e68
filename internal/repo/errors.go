package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/cafepos-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

// WrapWriteError maps a failed insert/update to a typed error. Unique
// violations become conflicts naming the entity; typed errors pass through.
func WrapWriteError(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s name already exists", entity))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: %s %s", op, entity))
}

// WrapReadError maps a failed lookup by id to not-found or a dependency error.
func WrapReadError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", entity))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: load %s", entity))
}

// WrapTxError keeps typed errors raised inside a transaction and wraps
// begin/commit failures as dependency errors.
func WrapTxError(err error, op string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: "+op)
}
