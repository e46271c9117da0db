package graph

import (
	"github.com/graph-gophers/graphql-go"
)

const schemaSDL = `
	schema {
		query: Query
	}

	type Query {
		entity(reference: ID!): Entity
	}

	"A Preservica entity"
	type Entity {
		reference: ID!
		title: String!
		securityTag: String!
		parent: ID!
	}
`

// NewSchema binds the resolver to the schema. Mutations and subscriptions are
// not declared, so any such operation is rejected during validation. Root
// fields resolve one after another, never in parallel.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r, graphql.MaxParallelism(1))
}
