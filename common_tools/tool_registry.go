package common_tools

import (
	"context"

	"github.com/Desarso/toolchat/models"
)

func intPairParameters(aDesc, bDesc string) models.Parameters {
	return models.Parameters{
		Type: "object",
		Properties: map[string]interface{}{
			"a": map[string]interface{}{
				"type":        "integer",
				"description": aDesc,
			},
			"b": map[string]interface{}{
				"type":        "integer",
				"description": bDesc,
			},
		},
		Required: []string{"a", "b"},
	}
}

func queryParameters(desc string) models.Parameters {
	return models.Parameters{
		Type: "object",
		Properties: map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": desc,
			},
		},
		Required: []string{"query"},
	}
}

// MultiplyTool returns a FunctionDeclaration for integer multiplication.
func MultiplyTool() models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "multiply",
		Description: "Multiply two numbers.",
		Parameters:  intPairParameters("first int", "second int"),
		Callable: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			a, b, err := intPair(args)
			if err != nil {
				return nil, err
			}
			return Multiply(a, b)
		},
	}
}

// AddTool returns a FunctionDeclaration for integer addition.
func AddTool() models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "add",
		Description: "Add two numbers.",
		Parameters:  intPairParameters("first int", "second int"),
		Callable: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			a, b, err := intPair(args)
			if err != nil {
				return nil, err
			}
			return Add(a, b)
		},
	}
}

// SubtractTool returns a FunctionDeclaration for integer subtraction.
func SubtractTool() models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "subtract",
		Description: "Subtract two numbers.",
		Parameters:  intPairParameters("first int", "second int"),
		Callable: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			a, b, err := intPair(args)
			if err != nil {
				return nil, err
			}
			return Subtract(a, b)
		},
	}
}

// DivideTool returns a FunctionDeclaration for division. Dividing by zero
// surfaces as a tool error the model can read.
func DivideTool() models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "divide",
		Description: "Divide two numbers.",
		Parameters:  intPairParameters("first int", "second int"),
		Callable: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			a, b, err := intPair(args)
			if err != nil {
				return nil, err
			}
			return Divide(a, b)
		},
	}
}

// ModulusTool returns a FunctionDeclaration for the remainder of a by b.
func ModulusTool() models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "modulus",
		Description: "Get the modulus of two numbers.",
		Parameters:  intPairParameters("first int", "second int"),
		Callable: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			a, b, err := intPair(args)
			if err != nil {
				return nil, err
			}
			return Modulus(a, b)
		},
	}
}

// WikiSearchTool returns a FunctionDeclaration backed by l.Wiki_Search.
func WikiSearchTool(l *Lookup) models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "wiki_search",
		Description: "Search Wikipedia for a query and return maximum 2 results.",
		Parameters:  queryParameters("The search query."),
		Callable: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			query, err := StringArg(args, "query")
			if err != nil {
				return nil, err
			}
			return l.Wiki_Search(ctx, query), nil
		},
	}
}

// WebSearchTool returns a FunctionDeclaration backed by l.Web_Search.
func WebSearchTool(l *Lookup) models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "web_search",
		Description: "Search Tavily for a query and return maximum 3 results.",
		Parameters:  queryParameters("The search query."),
		Callable: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			query, err := StringArg(args, "query")
			if err != nil {
				return nil, err
			}
			return l.Web_Search(ctx, query), nil
		},
	}
}

// ArxivSearchTool returns a FunctionDeclaration backed by l.Arxiv_Search.
func ArxivSearchTool(l *Lookup) models.FunctionDeclaration {
	return models.FunctionDeclaration{
		Name:        "arxiv_search",
		Description: "Search Arxiv for a query and return maximum 3 results.",
		Parameters:  queryParameters("The search query."),
		Callable: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			query, err := StringArg(args, "query")
			if err != nil {
				return nil, err
			}
			return l.Arxiv_Search(ctx, query), nil
		},
	}
}

// ArithmeticTools returns the five integer tools in registration order.
func ArithmeticTools() []models.FunctionDeclaration {
	return []models.FunctionDeclaration{
		MultiplyTool(),
		AddTool(),
		SubtractTool(),
		DivideTool(),
		ModulusTool(),
	}
}

// DefaultTools returns the full tool set offered to the model, in a fixed order.
func DefaultTools(l *Lookup) []models.FunctionDeclaration {
	return append(ArithmeticTools(),
		WikiSearchTool(l),
		WebSearchTool(l),
		ArxivSearchTool(l),
	)
}
