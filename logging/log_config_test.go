package logging

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func verifySetLevels(registry *Registry, expectedMatches map[string]string) bool {
	for name, level := range expectedMatches {
		logger, ok := registry.loggerNamed(name)
		if !ok || !strings.EqualFold(level, logger.GetLevel().String()) {
			return false
		}
	}
	return true
}

func createTestRegistry(loggerNames []string) *Registry {
	manager := newRegistry()
	for _, name := range loggerNames {
		manager.registerLogger(name, NewBlankLogger(name))
	}
	return manager
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	type testCfg struct {
		pattern string
		isValid bool
	}

	tests := []testCfg{
		// Valid patterns
		{"panodepth.rimage", true},
		{"panodepth.rimage.*", true},
		{"panodepth.*.decoder", true},
		{"panodepth.*.*", true},
		{"*.streetview", true},
		{"*", true},
		{"depth_image", true},

		// Invalid patterns
		{"panodepth..rimage", false},
		{"panodepth.rimage.", false},
		{".panodepth.rimage", false},
		{"panodepth.rimage.**", false},
		{"panodepth.**.rimage", false},

		// Invalid patterns with special characters
		{"_.panodepth.rimage", false},
		{"-.panodepth", false},
		{"panodepth.-", false},
		{"panodepth._.rimage", false},
		{"panodepth rimage", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			test.That(t, ValidatePattern(tc.pattern), test.ShouldEqual, tc.isValid)
		})
	}
}

func TestUpdateLoggerRegistry(t *testing.T) {
	type testCfg struct {
		loggerConfig    []LoggerPatternConfig
		loggerNames     []string
		expectedMatches map[string]string
	}

	tests := []testCfg{
		{
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "panodepth.streetview", Level: "WARN"},
			},
			loggerNames: []string{
				"panodepth.streetview",
				"panodepth.streetview.tiles",
				"panodepth.rimage",
			},
			expectedMatches: map[string]string{
				"panodepth.streetview":       "WARN",
				"panodepth.streetview.tiles": "INFO",
				"panodepth.rimage":           "INFO",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "panodepth.*", Level: "DEBUG"},
			},
			loggerNames: []string{
				"panodepth.streetview",
				"panodepth.rimage.decoder",
			},
			expectedMatches: map[string]string{
				"panodepth.streetview":     "DEBUG",
				"panodepth.rimage.decoder": "DEBUG",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "panodepth.*", Level: "DEBUG"},
				{Pattern: "panodepth.streetview", Level: "ERROR"},
			},
			loggerNames: []string{
				"panodepth.streetview",
				"panodepth.rimage",
			},
			expectedMatches: map[string]string{
				"panodepth.streetview": "ERROR",
				"panodepth.rimage":     "DEBUG",
			},
		},
		{
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "_.*.decoder", Level: "DEBUG"},
			},
			loggerNames: []string{
				"panodepth.rimage",
			},
			expectedMatches: map[string]string{
				"panodepth.rimage": "INFO",
			},
		},
	}

	for _, tc := range tests {
		testRegistry := createTestRegistry(tc.loggerNames)

		err := testRegistry.UpdateConfig(tc.loggerConfig, NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, verifySetLevels(testRegistry, tc.expectedMatches), test.ShouldBeTrue)
		test.That(t, testRegistry.getCurrentConfig(), test.ShouldResemble, tc.loggerConfig)
	}
}

func TestUpdateLoggerRegistryBadLevel(t *testing.T) {
	testRegistry := createTestRegistry([]string{"panodepth"})
	err := testRegistry.UpdateConfig([]LoggerPatternConfig{{Pattern: "panodepth", Level: "loud"}}, NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown log level")
}
