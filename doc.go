// Package config casts and validates process environment variables against a
// caller-supplied schema and exposes the result as an immutable snapshot.
// Every variable named by the schema is converted to its declared kind
// (string, number, boolean, date, array, object, or any), checked against the
// rule's constraints, and stored once at construction; variables without a
// rule are kept as plain strings. A single failure for any variable aborts
// construction — callers never see a partially populated snapshot.
//
// Schema keys the environment does not set can fall back to external secret
// providers such as AWS Secrets Manager, HashiCorp Vault, or Google Secret
// Manager, registered with WithProvider.
//
// Example:
//
//	schema := config.Schema{
//	    "PORT":         {Kind: config.KindNumber, Required: true, Constraint: "min=1,max=65535"},
//	    "DEBUG":        {Kind: config.KindBoolean},
//	    "ALLOWED_IPS":  {Kind: config.KindArray, Item: &config.Rule{Kind: config.KindString, Constraint: "ip"}},
//	    "DATABASE_URL": {Kind: config.KindString, Required: true, Provider: "aws", ProviderKey: "prod/database-url"},
//	}
//
//	env, err := config.Load(ctx, schema, config.WithProvider("aws", awsProvider))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port := env.Lookup("PORT").(float64)
package config
