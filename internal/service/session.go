package service

import (
	"github.com/mahalaxmi-auto/storefront/internal/entity"
)

func requireUser(sess *entity.Session) error {
	if sess == nil || sess.UserID == "" {
		return entity.ErrUnauthorized
	}
	return nil
}

func requireAdmin(sess *entity.Session) error {
	if err := requireUser(sess); err != nil {
		return err
	}
	if !sess.IsAdmin {
		return entity.ErrForbidden
	}
	return nil
}
