package graph

import (
	"errors"
	"log"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/postwall/internal/apperr"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// presentError переводит ошибку резолвера в ответ GraphQL.
// Клиент видит только публичное сообщение и код, причина уходит в лог.
func presentError(field graphql.CollectedField, err error) *gqlerror.Error {
	kind := apperr.KindOf(err)

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			log.Printf("%s: %s: %v", field.Name, kind, appErr.Err)
		}
	} else {
		log.Printf("%s: %v", field.Name, err)
	}

	gqlErr := &gqlerror.Error{
		Message: err.Error(),
		Path:    ast.Path{ast.PathName(field.Alias)},
		Extensions: map[string]interface{}{
			"code": string(kind),
		},
	}
	if field.Position != nil {
		gqlErr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	return gqlErr
}
