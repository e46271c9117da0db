package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/graph-gophers/graphql-go"
	"github.com/jlefonde/preservica_graphql/internal/errs"
	"github.com/jlefonde/preservica_graphql/internal/preservica"
	"github.com/jlefonde/preservica_graphql/internal/secret"
)

type TokenExchanger interface {
	Login(ctx context.Context, creds secret.Credentials) (preservica.Token, error)
}

type EntityFetcher interface {
	FetchEntity(ctx context.Context, reference uuid.UUID, token preservica.Token) (string, error)
}

// Resolver is the root Query resolver.
type Resolver struct {
	secrets  secret.Resolver
	tokens   TokenExchanger
	entities EntityFetcher
}

func NewResolver(secrets secret.Resolver, tokens TokenExchanger, entities EntityFetcher) *Resolver {
	return &Resolver{
		secrets:  secrets,
		tokens:   tokens,
		entities: entities,
	}
}

type entityArgs struct {
	Reference graphql.ID
}

// Entity resolves entity(reference). Every call logs in from scratch.
func (r *Resolver) Entity(ctx context.Context, args entityArgs) (*EntityResolver, error) {
	reference, err := uuid.Parse(string(args.Reference))
	if err != nil {
		return nil, errs.New(errs.InvalidRequest, "invalid entity reference '%s': %v", args.Reference, err)
	}

	entity, err := r.resolveEntity(ctx, reference)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to resolve entity", "reference", reference.String(), "error", err)
		return nil, fieldError(err)
	}

	return &EntityResolver{entity: entity}, nil
}

func (r *Resolver) resolveEntity(ctx context.Context, reference uuid.UUID) (*preservica.Entity, error) {
	creds, err := r.secrets.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	token, err := r.tokens.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	body, err := r.entities.FetchEntity(ctx, reference, token)
	if err != nil {
		return nil, err
	}

	return preservica.DecodeEntity(body)
}

// fieldError unwraps err to its *errs.Error so graphql-go can read its
// extensions; graphql-go only checks the returned value itself.
func fieldError(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return e
	}
	return err
}

type EntityResolver struct {
	entity *preservica.Entity
}

func (e *EntityResolver) Reference() graphql.ID {
	return graphql.ID(e.entity.Reference.String())
}

func (e *EntityResolver) Title() string {
	return e.entity.Title
}

func (e *EntityResolver) SecurityTag() string {
	return e.entity.SecurityTag
}

func (e *EntityResolver) Parent() graphql.ID {
	return graphql.ID(e.entity.Parent.String())
}
