package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/schema"
)

// DefineToolName is the name the model uses to request a definition.
const DefineToolName = "define_word"

var dictionary = map[string]string{
	"ephemeral":  "Lasting for a very short time.",
	"resilient":  "Able to recover quickly from difficulties.",
	"innovation": "The act of introducing something new.",
}

type defineArgs struct {
	Word string `json:"word"`
}

// Define returns the define_word tool, backed by a fixed dictionary.
func Define() domain.Tool {
	return domain.Tool{
		Name:        DefineToolName,
		Description: "Define a word using a dictionary.",
		Parameters: schema.Schema{
			schema.Required("word", schema.String(), "The word to define"),
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			var in defineArgs
			if err := decode(args, &in); err != nil {
				return fmt.Sprintf("Error defining word: %v", err), nil
			}
			return LookupDefinition(in.Word), nil
		},
	}
}

// LookupDefinition answers from the dictionary, matching the word case-insensitively.
func LookupDefinition(word string) string {
	if def, ok := dictionary[strings.ToLower(strings.TrimSpace(word))]; ok {
		return def
	}
	return fmt.Sprintf("No definition found for '%s'.", word)
}
