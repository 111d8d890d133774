package memory_test

import (
	"testing"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	contract "github.com/aretw0/tendril/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	data := map[string]string{
		"support": "You are a helpful customer support representative.",
		"tools":   "You are a helpful assistant with access to tools.",
	}

	contract.PromptLoaderContractTest(t, memory.NewLoader(data), data)
}

func TestNewFromPrompts(t *testing.T) {
	temp := float32(0.2)
	l, err := memory.NewFromPrompts(domain.Prompt{Name: "terse", Instruction: "Be brief.", Temperature: &temp})
	require.NoError(t, err)
	contract.PromptLoaderContractTest(t, l, map[string]string{"terse": "Be brief."})

	_, err = memory.NewFromPrompts(domain.Prompt{Instruction: "anonymous"})
	assert.Error(t, err)
}
