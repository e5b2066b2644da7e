package controllers

import (
	"context"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/dnguyen-dev/bistro/app/repositories"
	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/bind"
	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/middleware"
	"github.com/dnguyen-dev/bistro/pkg/response"
)

// GraphQLController is a read-only query surface over the catalogue,
// tables and booking history. Mutations stay on the REST flow.
type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController(bookings *services.BookingService) (*GraphQLController, error) {
	menu := repositories.NewMenuRepository()
	tables := repositories.NewTableRepository()

	menuItemType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MenuItem",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"price":        &graphql.Field{Type: graphql.Float},
			"category":     &graphql.Field{Type: graphql.String},
			"isBestSeller": &graphql.Field{Type: graphql.Boolean},
			"image":        &graphql.Field{Type: graphql.String},
			"description":  &graphql.Field{Type: graphql.String},
		},
	})

	tableType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Table",
		Fields: graphql.Fields{
			"number":   &graphql.Field{Type: graphql.Int},
			"capacity": &graphql.Field{Type: graphql.Int},
			"status":   &graphql.Field{Type: graphql.String},
		},
	})

	bookingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Booking",
		Fields: graphql.Fields{
			"code":      &graphql.Field{Type: graphql.String},
			"subtotal":  &graphql.Field{Type: graphql.Float},
			"tax":       &graphql.Field{Type: graphql.Float},
			"total":     &graphql.Field{Type: graphql.Float},
			"timestamp": &graphql.Field{Type: graphql.String},
		},
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"menu": &graphql.Field{
				Type: graphql.NewList(menuItemType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if category, ok := p.Args["category"].(string); ok && category != "" {
						return menu.ByCategory(category)
					}
					return menu.All()
				},
			},
			"tables": &graphql.Field{
				Type: graphql.NewList(tableType),
				Args: graphql.FieldConfigArgument{
					"guests": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					all, err := tables.All()
					if err != nil {
						return nil, err
					}
					if guests, ok := p.Args["guests"].(int); ok && guests > 0 {
						return services.AvailableTables(all, guests), nil
					}
					return all, nil
				},
			},
			"bookings": &graphql.Field{
				Type: graphql.NewList(bookingType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					userID, ok := p.Context.Value(userIDCtxKey{}).(uint)
					if !ok {
						return nil, nil
					}
					return bookings.History(userID)
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
	if err != nil {
		return nil, err
	}
	return &GraphQLController{schema: schema}, nil
}

type userIDCtxKey struct{}

func contextWithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, id)
}

type graphqlInput struct {
	Query     string         `json:"query" validate:"required"`
	Variables map[string]any `json:"variables"`
}

// Query executes a GraphQL query. POST /api/graphql
func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) {
	var in graphqlInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ctx := r.Context()
	if userID, ok := middleware.UserIDFromCtx(r); ok {
		ctx = contextWithUserID(ctx, userID)
	}

	result := graphql.Do(graphql.Params{
		Schema:         c.schema,
		RequestString:  in.Query,
		VariableValues: in.Variables,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		logger.WithCtx(r.Context()).Warn("graphql query errors", "errors", result.Errors)
	}
	response.Success(w, result)
}
