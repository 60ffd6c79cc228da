// Package testkit drives HTTP handler tests from JSON scenario files.
//
// Each scenario is a JSON file that describes:
//   - The HTTP request to fire (method, URL, headers)
//   - Expected HTTP status code and response headers
//   - An optional expected response body file
//
// Scenario files live next to your *_test.go files:
//
//	testdata/scenarios/
//	  divide.json        ← scenario
//	  divide_res.json    ← expected response body
//
// Example _test.go:
//
//	func TestScenarios(t *testing.T) {
//	    testkit.RunDir(t, app.New().Routes(routes.RegisterAPI).Handler(), "testdata/scenarios")
//	}
//
// Expected bodies and headers are partial: only the keys they list are
// compared, and the string "*" matches any present value. That lets a
// scenario pin the shape of a reply whose request ID is generated.
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Wildcard matches any present value in expected headers and bodies.
const Wildcard = "*"

// Scenario describes a single HTTP test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod string            `json:"requestMethod"` // defaults to GET
	RequestURL    string            `json:"requestUrl"`
	Headers       map[string]string `json:"headers"`

	ExpectedCode     int               `json:"expectedCode"`
	ExpectedHeaders  map[string]string `json:"expectedHeaders"`
	ResponseFileName string            `json:"responseFileName"` // relative to the scenario file

	dir string
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = http.MethodGet
	}
	return nil
}

// ResponseBodyPath returns the absolute path to the expected response file,
// or "" when the scenario does not check the body.
func (s *Scenario) ResponseBodyPath() string {
	if s.ResponseFileName == "" {
		return ""
	}
	if filepath.IsAbs(s.ResponseFileName) {
		return s.ResponseFileName
	}
	return filepath.Join(s.dir, s.ResponseFileName)
}
