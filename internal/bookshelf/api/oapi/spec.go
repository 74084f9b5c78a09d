package oapi

import _ "embed"

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=cfg.yaml openapi.yaml

// Spec is the OpenAPI document the handlers are generated from.
//
//go:embed openapi.yaml
var Spec []byte
