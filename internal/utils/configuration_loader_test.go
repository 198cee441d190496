package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depaudit/internal/utils"
)

const (
	testEnvironmentPrefixConstant                     = "TESTDEPAUDIT"
	testReportSectionKeyConstant                      = "report"
	testHostKeyConstant                               = testReportSectionKeyConstant + ".host"
	testTimeoutKeyConstant                            = testReportSectionKeyConstant + ".timeout"
	testDefaultHostConstant                           = "default.example.com"
	testEmbeddedHostConstant                          = "embedded.example.com"
	testFileHostConstant                              = "file.example.com"
	testEnvironmentHostConstant                       = "environment.example.com"
	testDotEnvHostConstant                            = "dotenv.example.com"
	testDefaultTimeoutConstant                        = "30s"
	testConfigFileNameConstant                        = "config.yaml"
	testDotEnvFileNameConstant                        = ".env"
	testConfigContentTemplateConstant                 = "report:\n  host: %s\n"
	testTimeoutConfigContentConstant                  = "report:\n  timeout: 2m\n"
	testDotEnvContentTemplateConstant                 = "%s=%s\n"
	testCaseEmbeddedMessageConstant                   = "embedded configuration merges"
	testCaseDefaultsMessageConstant                   = "defaults are applied"
	testCaseFileMessageConstant                       = "config file overrides embedded configuration"
	testCaseEnvironmentMessageConstant                = "environment overrides file"
	testCaseDotEnvMessageConstant                     = "dotenv file feeds the environment"
	testConfigurationNameConstant                     = "config"
	testConfigurationTypeConstant                     = "yaml"
	configurationLoaderSubtestNameTemplateConstant    = "%d_%s"
	testUserConfigurationDirectoryNameConstant        = ".depaudit"
	testXDGConfigHomeDirectoryNameConstant            = "config"
	testCaseSearchPathWorkingDirectoryMessageConstant = "searches working directory"
	testCaseSearchPathHomeDirectoryMessageConstant    = "searches home configuration directory"
)

type configurationFixture struct {
	Report configurationReportFixture `mapstructure:"report"`
}

type configurationReportFixture struct {
	Host    string        `mapstructure:"host"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func environmentVariableName(configurationKey string) string {
	return fmt.Sprintf("%s_%s", testEnvironmentPrefixConstant, strings.ToUpper(strings.ReplaceAll(configurationKey, ".", "_")))
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name             string
		embeddedHost     string
		fileHost         string
		environmentHost  string
		dotEnvHost       string
		expectedHost     string
		expectDotEnvUsed bool
	}{
		{
			name:         testCaseEmbeddedMessageConstant,
			embeddedHost: testEmbeddedHostConstant,
			expectedHost: testEmbeddedHostConstant,
		},
		{
			name:         testCaseDefaultsMessageConstant,
			expectedHost: testDefaultHostConstant,
		},
		{
			name:         testCaseFileMessageConstant,
			embeddedHost: testEmbeddedHostConstant,
			fileHost:     testFileHostConstant,
			expectedHost: testFileHostConstant,
		},
		{
			name:             testCaseEnvironmentMessageConstant,
			embeddedHost:     testEmbeddedHostConstant,
			fileHost:         testFileHostConstant,
			environmentHost:  testEnvironmentHostConstant,
			dotEnvHost:       testDotEnvHostConstant,
			expectedHost:     testEnvironmentHostConstant,
			expectDotEnvUsed: true,
		},
		{
			name:             testCaseDotEnvMessageConstant,
			fileHost:         testFileHostConstant,
			dotEnvHost:       testDotEnvHostConstant,
			expectedHost:     testDotEnvHostConstant,
			expectDotEnvUsed: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()
			hostVariableName := environmentVariableName(testHostKeyConstant)
			testInstance.Cleanup(func() {
				require.NoError(testInstance, os.Unsetenv(hostVariableName))
			})

			configurationFilePath := ""
			if len(testCase.fileHost) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileHost)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
			}

			if len(testCase.environmentHost) > 0 {
				require.NoError(testInstance, os.Setenv(hostVariableName, testCase.environmentHost))
			}

			dotEnvFilePath := filepath.Join(tempDirectory, testDotEnvFileNameConstant)
			if len(testCase.dotEnvHost) > 0 {
				dotEnvContent := fmt.Sprintf(testDotEnvContentTemplateConstant, hostVariableName, testCase.dotEnvHost)
				require.NoError(testInstance, os.WriteFile(dotEnvFilePath, []byte(dotEnvContent), 0o600))
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{tempDirectory})
			configurationLoader.SetEnvironmentFiles(dotEnvFilePath)
			if len(testCase.embeddedHost) > 0 {
				configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedHost)), testConfigurationTypeConstant)
			}

			defaultValues := map[string]any{
				testHostKeyConstant:    testDefaultHostConstant,
				testTimeoutKeyConstant: testDefaultTimeoutConstant,
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedHost, loadedConfiguration.Report.Host)
			require.Equal(testInstance, 30*time.Second, loadedConfiguration.Report.Timeout)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}

			if testCase.expectDotEnvUsed {
				require.Equal(testInstance, []string{dotEnvFilePath}, metadata.EnvironmentFilesLoaded)
			} else {
				require.Empty(testInstance, metadata.EnvironmentFilesLoaded)
			}
		})
	}
}

func TestConfigurationLoaderDecodesDurations(testInstance *testing.T) {
	tempDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(tempDirectory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testTimeoutConfigContentConstant), 0o600))

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(configurationFilePath, map[string]any{testTimeoutKeyConstant: testDefaultTimeoutConstant}, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, 2*time.Minute, loadedConfiguration.Report.Timeout)

	testInstance.Setenv(environmentVariableName(testTimeoutKeyConstant), "45s")
	_, reloadError := configurationLoader.LoadConfiguration(configurationFilePath, map[string]any{testTimeoutKeyConstant: testDefaultTimeoutConstant}, &loadedConfiguration)
	require.NoError(testInstance, reloadError)
	require.Equal(testInstance, 45*time.Second, loadedConfiguration.Report.Timeout)
}

func TestConfigurationLoaderSearchPaths(testInstance *testing.T) {
	testCases := []struct {
		name                         string
		configurationDirectorySelect func(workingDirectoryPath string, userConfigurationDirectoryPath string) string
	}{
		{
			name: testCaseSearchPathWorkingDirectoryMessageConstant,
			configurationDirectorySelect: func(workingDirectoryPath string, userConfigurationDirectoryPath string) string {
				return workingDirectoryPath
			},
		},
		{
			name: testCaseSearchPathHomeDirectoryMessageConstant,
			configurationDirectorySelect: func(workingDirectoryPath string, userConfigurationDirectoryPath string) string {
				return userConfigurationDirectoryPath
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			workingDirectoryPath := testInstance.TempDir()
			homeDirectoryPath := testInstance.TempDir()
			xdgConfigHomeDirectoryPath := filepath.Join(homeDirectoryPath, testXDGConfigHomeDirectoryNameConstant)

			testInstance.Setenv("HOME", homeDirectoryPath)
			testInstance.Setenv("XDG_CONFIG_HOME", xdgConfigHomeDirectoryPath)

			userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
			require.NoError(testInstance, userConfigurationDirectoryError)

			userConfigurationDirectoryPath := filepath.Join(userConfigurationBaseDirectoryPath, testUserConfigurationDirectoryNameConstant)
			require.NoError(testInstance, os.MkdirAll(userConfigurationDirectoryPath, 0o755))

			selectedConfigurationDirectoryPath := testCase.configurationDirectorySelect(workingDirectoryPath, userConfigurationDirectoryPath)
			configurationFilePath := filepath.Join(selectedConfigurationDirectoryPath, testConfigFileNameConstant)
			configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testFileHostConstant)
			require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))

			configurationLoader := utils.NewConfigurationLoader(
				testConfigurationNameConstant,
				testConfigurationTypeConstant,
				testEnvironmentPrefixConstant,
				[]string{workingDirectoryPath, userConfigurationDirectoryPath},
			)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration("", map[string]any{testHostKeyConstant: testDefaultHostConstant}, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testFileHostConstant, loadedConfiguration.Report.Host)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}
