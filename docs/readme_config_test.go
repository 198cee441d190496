package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/depaudit/cmd/cli"
	"github.com/temirov/depaudit/internal/audit"
	"github.com/temirov/depaudit/internal/utils"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	readmeSnippetFileNameConstant    = "config.yaml"
	parentDirectoryReferenceConstant = ".."
	reportConfigurationKeyConstant   = "report"
	environmentPrefixConstant        = "DEPAUDITDOCS"
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
)

func readReadmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	fenceEndRelativeIndex := strings.Index(contentText[headerIndex:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : headerIndex+fenceEndRelativeIndex])
}

func TestReadmeConfigurationUsesKnownKeys(testInstance *testing.T) {
	snippet := readReadmeConfigurationSnippet(testInstance)

	var documented map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippet), &documented))

	embeddedContent, _ := cli.EmbeddedDefaultConfiguration()
	var embedded map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal(embeddedContent, &embedded))

	for sectionName, section := range documented {
		embeddedSection, sectionKnown := embedded[sectionName]
		require.Truef(testInstance, sectionKnown, "unexpected section %s", sectionName)
		for keyName := range section {
			_, keyKnown := embeddedSection[keyName]
			require.Truef(testInstance, keyKnown, "unexpected key %s.%s", sectionName, keyName)
		}
	}
}

func TestReadmeConfigurationLoads(testInstance *testing.T) {
	snippetPath := filepath.Join(testInstance.TempDir(), readmeSnippetFileNameConstant)
	require.NoError(testInstance, os.WriteFile(snippetPath, []byte(readReadmeConfigurationSnippet(testInstance)), 0o600))

	loader := utils.NewConfigurationLoader("config", "yaml", environmentPrefixConstant, nil)
	loader.SetEmbeddedConfiguration(cli.EmbeddedDefaultConfiguration())

	var configuration cli.ApplicationConfiguration
	_, loadError := loader.LoadConfiguration(snippetPath, audit.DefaultConfigurationValues(reportConfigurationKeyConstant), &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, "collector.internal", configuration.Report.Host)
	require.Equal(testInstance, 8443, configuration.Report.Port)
	require.Equal(testInstance, 2*time.Minute, configuration.Report.Timeout)
	require.True(testInstance, configuration.Report.Summary)
	require.False(testInstance, configuration.Report.ObjectStore.UseSSL)
	require.Equal(testInstance, "/api/report", configuration.Report.EndpointPath)
}
