package cmd

import (
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabledModules(t *testing.T) {
	assert.Equal(t, []string{"sale"}, enabledModules([]string{" Sale", "", "sale "}))
	assert.Empty(t, enabledModules(nil))
}

func TestInvokeUnknownModule(t *testing.T) {
	_, err := invokeModules(do.New(Modules), []string{"lottery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `module "lottery" is not supported`)
}
