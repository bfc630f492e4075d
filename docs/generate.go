package docs

//go:generate go run github.com/swaggo/swag/v2/cmd/swag init --dir .. --generalInfo cmd/server/main.go --output . --outputTypes go,json --parseInternal
