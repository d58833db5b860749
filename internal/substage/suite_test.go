package substage_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSubstage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Substage Suite")
}
