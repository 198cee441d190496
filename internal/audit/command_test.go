package audit_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/depaudit/internal/audit"
	"github.com/temirov/depaudit/internal/transport"
)

func buildReportCommand(testInstance *testing.T, fixture *serviceFixture, configuration audit.CommandConfiguration, arguments []string) error {
	testInstance.Helper()
	builder := audit.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() audit.CommandConfiguration { return configuration },
		ManifestReader:        fixture.manifestReader,
		AuditRunner:           fixture.auditRunner,
		VCSAccessor:           fixture.vcsAccessor,
		DirectoryWalker:       fixture.walker,
		Deliverer:             fixture.deliverer,
		Persister:             fixture.persister,
		HostNameProvider:      func() (string, error) { return testHostNameConstant, nil },
		Clock:                 &steppingClock{next: testStartTime},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)
	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	return command.Execute()
}

func TestCommandBuilderFlagsOverrideConfiguration(testInstance *testing.T) {
	fixture := newServiceFixture()
	configuration := audit.DefaultCommandConfiguration()
	configuration.Token = "configured-token"

	executionError := buildReportCommand(testInstance, fixture, configuration, []string{
		"-t", testTokenConstant,
		"-o", testOutputPathConstant,
	})

	require.NoError(testInstance, executionError)
	require.Empty(testInstance, fixture.deliverer.bundles)
	require.Equal(testInstance, []string{testOutputPathConstant}, fixture.persister.paths)
}

func TestCommandBuilderDeliversWithConfiguredEndpoint(testInstance *testing.T) {
	fixture := newServiceFixture()
	configuration := audit.DefaultCommandConfiguration()
	configuration.Token = testTokenConstant
	configuration.Host = "collector.internal"

	executionError := buildReportCommand(testInstance, fixture, configuration, []string{"-p", "8443"})

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"collector.internal"}, fixture.deliverer.hosts)
	require.Equal(testInstance, []int{8443}, fixture.deliverer.ports)
	require.Equal(testInstance, []transport.Credential{testTokenConstant}, fixture.deliverer.credentials)
	require.False(testInstance, fixture.auditRunner.deadlineSet)
}

func TestCommandBuilderSkipsWithoutToken(testInstance *testing.T) {
	fixture := newServiceFixture()

	executionError := buildReportCommand(testInstance, fixture, audit.DefaultCommandConfiguration(), nil)

	require.NoError(testInstance, executionError)
	require.Zero(testInstance, fixture.collaboratorCalls())
}

func TestCommandBuilderAppliesTimeout(testInstance *testing.T) {
	fixture := newServiceFixture()
	configuration := audit.DefaultCommandConfiguration()
	configuration.Token = testTokenConstant
	configuration.Timeout = time.Minute

	require.NoError(testInstance, buildReportCommand(testInstance, fixture, configuration, nil))
	require.True(testInstance, fixture.auditRunner.deadlineSet)
}

func TestCommandBuilderRejectsInvalidSettings(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedMessage string
	}{
		{name: "port_out_of_range", arguments: []string{"-t", testTokenConstant, "--port", "70000"}, expectedMessage: "port 70000 is outside 1-65535"},
		{name: "negative_timeout", arguments: []string{"-t", testTokenConstant, "--timeout", "-5s"}, expectedMessage: "timeout -5s must not be negative"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newServiceFixture()
			executionError := buildReportCommand(testInstance, fixture, audit.DefaultCommandConfiguration(), testCase.arguments)
			require.EqualError(testInstance, executionError, testCase.expectedMessage)
			require.Zero(testInstance, fixture.collaboratorCalls())
		})
	}
}

func TestCommandBuilderReturnsDeliveryFailure(testInstance *testing.T) {
	fixture := newServiceFixture()
	fixture.deliverer.deliverErr = transport.DeliveryError{Endpoint: testEndpointConstant, StatusCode: 503}
	configuration := audit.DefaultCommandConfiguration()
	configuration.Token = testTokenConstant

	executionError := buildReportCommand(testInstance, fixture, configuration, nil)

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unable to deliver report")
}
