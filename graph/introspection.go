package graph

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
)

// Ответы на __schema и __type строятся из introspection-обертки gqlgen над parsedSchema.
// В схеме нет @deprecated, поэтому isDeprecated всегда false.

func (ec *executionContext) introspectSchema(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	return ec.marshalSchema(ctx, field.Selections, introspection.WrapSchema(parsedSchema))
}

func (ec *executionContext) introspectType(ctx context.Context, field graphql.CollectedField, name string) graphql.Marshaler {
	def := parsedSchema.Types[name]
	if def == nil {
		return graphql.Null
	}
	return ec.marshalType(ctx, field.Selections, introspection.WrapTypeFromDef(parsedSchema, def))
}

func (ec *executionContext) marshalSchema(ctx context.Context, sel ast.SelectionSet, s *introspection.Schema) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"__Schema"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Schema")
		case "description":
			out.Values[i] = marshalOptionalString(nonEmpty(parsedSchema.Description))
		case "types":
			types := s.Types()
			list := make(graphql.Array, 0, len(types))
			for j := range types {
				list = append(list, ec.marshalType(ctx, field.Selections, &types[j]))
			}
			out.Values[i] = list
		case "queryType":
			out.Values[i] = ec.marshalType(ctx, field.Selections, s.QueryType())
		case "mutationType":
			out.Values[i] = ec.marshalType(ctx, field.Selections, s.MutationType())
		case "subscriptionType":
			out.Values[i] = ec.marshalType(ctx, field.Selections, s.SubscriptionType())
		case "directives":
			directives := s.Directives()
			list := make(graphql.Array, 0, len(directives))
			for j := range directives {
				list = append(list, ec.marshalDirective(ctx, field.Selections, &directives[j]))
			}
			out.Values[i] = list
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalType(ctx context.Context, sel ast.SelectionSet, t *introspection.Type) graphql.Marshaler {
	if t == nil {
		return graphql.Null
	}

	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"__Type"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Type")
		case "kind":
			out.Values[i] = graphql.MarshalString(t.Kind())
		case "name":
			out.Values[i] = marshalOptionalString(t.Name())
		case "description":
			out.Values[i] = marshalOptionalString(t.Description())
		case "fields":
			typeFields := t.Fields(includeDeprecated(ec, field))
			if typeFields == nil {
				out.Values[i] = graphql.Null
				continue
			}
			list := make(graphql.Array, 0, len(typeFields))
			for j := range typeFields {
				list = append(list, ec.marshalField(ctx, field.Selections, &typeFields[j]))
			}
			out.Values[i] = list
		case "interfaces":
			out.Values[i] = ec.marshalTypeList(ctx, field.Selections, t.Interfaces())
		case "possibleTypes":
			out.Values[i] = ec.marshalTypeList(ctx, field.Selections, t.PossibleTypes())
		case "enumValues":
			values := t.EnumValues(includeDeprecated(ec, field))
			if values == nil {
				out.Values[i] = graphql.Null
				continue
			}
			list := make(graphql.Array, 0, len(values))
			for j := range values {
				list = append(list, ec.marshalEnumValue(ctx, field.Selections, &values[j]))
			}
			out.Values[i] = list
		case "inputFields":
			inputs := t.InputFields()
			if inputs == nil {
				out.Values[i] = graphql.Null
				continue
			}
			out.Values[i] = ec.marshalInputValues(ctx, field.Selections, inputs)
		case "ofType":
			out.Values[i] = ec.marshalType(ctx, field.Selections, t.OfType())
		case "isOneOf":
			out.Values[i] = graphql.MarshalBoolean(false)
		default:
			// specifiedByURL: своих скаляров в схеме нет
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalTypeList(ctx context.Context, sel ast.SelectionSet, types []introspection.Type) graphql.Marshaler {
	if types == nil {
		return graphql.Null
	}
	list := make(graphql.Array, 0, len(types))
	for j := range types {
		list = append(list, ec.marshalType(ctx, sel, &types[j]))
	}
	return list
}

func (ec *executionContext) marshalField(ctx context.Context, sel ast.SelectionSet, f *introspection.Field) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"__Field"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Field")
		case "name":
			out.Values[i] = graphql.MarshalString(f.Name)
		case "description":
			out.Values[i] = marshalOptionalString(f.Description())
		case "args":
			out.Values[i] = ec.marshalInputValues(ctx, field.Selections, f.Args)
		case "type":
			out.Values[i] = ec.marshalType(ctx, field.Selections, f.Type)
		case "isDeprecated":
			out.Values[i] = graphql.MarshalBoolean(false)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalInputValues(ctx context.Context, sel ast.SelectionSet, values []introspection.InputValue) graphql.Marshaler {
	list := make(graphql.Array, 0, len(values))
	for j := range values {
		list = append(list, ec.marshalInputValue(ctx, sel, &values[j]))
	}
	return list
}

func (ec *executionContext) marshalInputValue(ctx context.Context, sel ast.SelectionSet, v *introspection.InputValue) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"__InputValue"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__InputValue")
		case "name":
			out.Values[i] = graphql.MarshalString(v.Name)
		case "description":
			out.Values[i] = marshalOptionalString(v.Description())
		case "type":
			out.Values[i] = ec.marshalType(ctx, field.Selections, v.Type)
		case "defaultValue":
			out.Values[i] = marshalOptionalString(v.DefaultValue)
		case "isDeprecated":
			out.Values[i] = graphql.MarshalBoolean(false)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalEnumValue(ctx context.Context, sel ast.SelectionSet, v *introspection.EnumValue) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"__EnumValue"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__EnumValue")
		case "name":
			out.Values[i] = graphql.MarshalString(v.Name)
		case "description":
			out.Values[i] = marshalOptionalString(v.Description())
		case "isDeprecated":
			out.Values[i] = graphql.MarshalBoolean(false)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalDirective(ctx context.Context, sel ast.SelectionSet, d *introspection.Directive) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"__Directive"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Directive")
		case "name":
			out.Values[i] = graphql.MarshalString(d.Name)
		case "description":
			out.Values[i] = marshalOptionalString(d.Description())
		case "locations":
			list := make(graphql.Array, 0, len(d.Locations))
			for _, loc := range d.Locations {
				list = append(list, graphql.MarshalString(loc))
			}
			out.Values[i] = list
		case "args":
			out.Values[i] = ec.marshalInputValues(ctx, field.Selections, d.Args)
		case "isRepeatable":
			out.Values[i] = graphql.MarshalBoolean(d.IsRepeatable)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func includeDeprecated(ec *executionContext, field graphql.CollectedField) bool {
	if field.Definition == nil {
		return false
	}
	v, ok := field.ArgumentMap(ec.Variables)["includeDeprecated"]
	if !ok || v == nil {
		return false
	}
	b, err := graphql.UnmarshalBoolean(v)
	if err != nil {
		return false
	}
	return b
}

func marshalOptionalString(s *string) graphql.Marshaler {
	if s == nil {
		return graphql.Null
	}
	return graphql.MarshalString(*s)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
