package localdate_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/flyerhub/flyerd/tools/linters/localdate"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, localdate.Analyzer, "a")
}
