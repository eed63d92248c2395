package guard

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// LoginRequest is the credential payload for a PIN login.
type LoginRequest struct {
	Slug string `form:"slug" json:"slug"`
	PIN  string `form:"pin" json:"pin"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.Required),
		validation.Field(&r.PIN, validation.Required),
	)
}

// LoginWithPin verifies slug+PIN against the remote verifier and, on
// success, writes the session record and mirrors owner, slug, title, and
// phone into their independent storage keys.
//
// Failure modes map to error categories: empty slug or PIN after
// normalization is a validation error issued before any remote call, a
// transport or remote-side failure is an operation error, and a denial or
// unusable payload is an auth error carrying the remote message when one was
// given.
func (g *Guard) LoginWithPin(ctx context.Context, slug, pin string) (*SessionRecord, error) {
	req := LoginRequest{
		Slug: NormalizeSlug(slug),
		PIN:  strings.TrimSpace(pin),
	}

	if err := req.Validate(); err != nil {
		return nil, ErrSlugAndPINRequired
	}

	result, err := g.verifier.VerifyAccessPin(ctx, req.Slug, req.PIN)
	if err != nil {
		g.logger.Error("pin verification call failed: %v", err)
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, err
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "verification call failed")
	}

	if result == nil || !result.OK || result.OwnerID == "" {
		if result != nil && result.Error != "" {
			return nil, goerrors.New(result.Error, goerrors.CategoryAuth).
				WithTextCode(textCodeInvalidPIN).
				WithCode(goerrors.CodeUnauthorized)
		}
		return nil, ErrInvalidPIN
	}

	recordSlug := NormalizeSlug(result.Slug)
	if recordSlug == "" {
		recordSlug = req.Slug
	}

	session := g.sessions.Write(SessionRecord{
		OK:      true,
		Module:  g.module,
		OwnerID: result.OwnerID,
		Slug:    recordSlug,
		Title:   result.Title,
		Phone:   result.Phone,
	})

	// Mirrors for sibling modules that read fields without parsing the record.
	g.store.Set(g.keys.OwnerID, session.OwnerID)
	g.store.Set(g.keys.Slug, session.Slug)
	if session.Title != "" {
		g.store.Set(g.keys.Title, session.Title)
	}
	if session.Phone != "" {
		g.store.Set(g.keys.Phone, normalizePhone(session.Phone))
	}

	g.logger.Info("login succeeded for slug %q", session.Slug)
	return session, nil
}

// normalizePhone formats international numbers as E.164 for the phone mirror.
// Numbers without a country prefix are mirrored as given.
func normalizePhone(raw string) string {
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
