//go:build integration

package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/config"
	"github.com/studentrecords/conformance/contract"
	"github.com/studentrecords/conformance/internal/fakeapi"
	"github.com/studentrecords/conformance/invoker"
	"github.com/studentrecords/conformance/suite"
)

const (
	defaultContract = "../contract/testdata/students-openapi.yaml"
	runTimeout      = 5 * time.Minute
)

// target is the API under test and everything needed to run cases against it.
type target struct {
	cfg     *config.Config
	plan    *suite.TestPlan
	session *invoker.Session
	fake    *fakeapi.API
	server  *httptest.Server
}

func (t *target) close() {
	if t.session != nil {
		t.session.Close()
	}
	if t.server != nil {
		t.server.Close()
	}
}

func contractPath() string {
	if p := os.Getenv("CONFORMANCE_OPENAPI"); p != "" {
		return p
	}
	return defaultContract
}

// fakeConfig configures every endpoint against a local fake listening at baseURL.
func fakeConfig(baseURL string) *config.Config {
	cfg := config.New()
	cfg.LocalTest = true
	cfg.API.LocalBaseURL = baseURL
	cfg.Auth.BasicAuth = &config.BasicAuthConfig{Username: "integration", Password: "secret"}
	cfg.TestCases.NotFoundID = fakeapi.DefaultNotFoundID
	cfg.TestCases.ValidTerms = []string{"201901", "202003"}
	cfg.TestCases.InvalidTerms = []string{"2019", "fall"}
	cfg.TestCases.IDs = map[string]string{}
	for _, ep := range suite.StudentEndpoints() {
		cfg.TestCases.IDs[ep.IDKey] = "931234567"
	}
	return cfg
}

func nullableNames() []string {
	var names []string
	for _, ep := range suite.StudentEndpoints() {
		names = append(names, ep.NullableFields...)
	}
	return names
}

func newTarget() *target {
	c, err := contract.Load(contractPath())
	Expect(err).NotTo(HaveOccurred())

	t := &target{}
	if path := os.Getenv("CONFORMANCE_CONFIG"); path != "" {
		t.cfg, err = config.Load(path)
		Expect(err).NotTo(HaveOccurred())
	} else {
		t.fake, err = fakeapi.New(c, suite.StudentEndpoints(),
			fakeapi.WithBasicAuth("integration", "secret"),
			fakeapi.WithNullFields(nullableNames()...),
		)
		Expect(err).NotTo(HaveOccurred())
		t.server = t.fake.Start()
		t.cfg = fakeConfig(t.server.URL)
		Expect(t.cfg.Validate()).To(Succeed())
	}

	t.plan, err = suite.Plan(t.cfg, c, suite.StudentEndpoints())
	Expect(err).NotTo(HaveOccurred())

	t.session, err = invoker.New(invoker.FromConfig(t.cfg), invoker.WithLogger(zap.NewNop().Sugar()))
	Expect(err).NotTo(HaveOccurred())
	return t
}

func run(t *target, opts ...suite.RunnerOption) *suite.Report {
	runner, err := suite.NewRunner(t.session, opts...)
	Expect(err).NotTo(HaveOccurred())

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	report, err := runner.Run(ctx, t.plan)
	Expect(err).NotTo(HaveOccurred())
	return report
}

func describeFailures(report *suite.Report) string {
	var buf bytes.Buffer
	_ = report.Write(&buf, "text")
	return buf.String()
}

var _ = Describe("students API", Ordered, func() {
	var t *target

	BeforeAll(func() {
		t = newTarget()
	})

	AfterAll(func() {
		t.close()
	})

	It("plans a case for every configured endpoint", func() {
		Expect(t.plan.Cases).NotTo(BeEmpty())
		for _, c := range t.plan.Cases {
			Expect(c.Path).To(HavePrefix("/students/"))
			if c.Kind == suite.CaseNotFound {
				Expect(c.ExpectedStatus).To(Equal(http.StatusNotFound))
			}
		}
	})

	for _, ep := range suite.StudentEndpoints() {
		It("conforms on "+ep.Name, func() {
			for _, s := range t.plan.Skipped {
				if s.Endpoint == ep.Name {
					Skip(s.Reason)
				}
			}

			report := run(t, suite.WithFilters("^"+ep.Name+"/"))
			Expect(report.Cases).NotTo(BeEmpty())
			Expect(report.Summary.Errored).To(BeZero(), describeFailures(report))
			Expect(report.OK()).To(BeTrue(), describeFailures(report))
			for _, c := range report.Cases {
				Expect(c.Endpoint).To(Equal(ep.Name))
				Expect(c.Violations).To(BeEmpty())
			}
		})
	}

	It("runs the whole plan in parallel", func() {
		report := run(t, suite.WithParallel(8))
		Expect(report.RunID).NotTo(BeEmpty())
		Expect(report.Summary.Total).To(Equal(len(t.plan.Cases)))
		Expect(report.Summary.Skipped).To(Equal(len(t.plan.Skipped)))
		Expect(report.OK()).To(BeTrue(), describeFailures(report))
	})
})

var _ = Describe("fault detection", Ordered, func() {
	var t *target

	BeforeAll(func() {
		if os.Getenv("CONFORMANCE_CONFIG") != "" {
			Skip("fault injection needs the local fake")
		}
		t = newTarget()
	})

	AfterAll(func() {
		if t != nil {
			t.close()
		}
	})

	It("reports a missing required field", func() {
		t.fake.SetOverride("gpa", fakeapi.Override{
			Status: http.StatusOK,
			Body:   []byte(`{}`),
		})
		DeferCleanup(t.fake.ClearOverride, "gpa")

		report := run(t, suite.WithFilters("^gpa/valid-id$"))
		Expect(report.Cases).To(HaveLen(1))
		Expect(report.Cases[0].Outcome).To(Equal(suite.OutcomeFailed))
		Expect(report.Cases[0].Violations).To(ContainElement(
			HaveField("Kind", checker.MissingRequiredField),
		))
		Expect(report.OK()).To(BeFalse())
	})

	It("reports a status mismatch", func() {
		t.fake.SetOverride("holds", fakeapi.Override{
			Status: http.StatusInternalServerError,
			Body:   []byte(`{"code":500,"message":"boom"}`),
		})
		DeferCleanup(t.fake.ClearOverride, "holds")

		report := run(t, suite.WithFilters("^holds/valid-id$"))
		Expect(report.Cases).To(HaveLen(1))
		Expect(report.Cases[0].StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(report.Cases[0].Violations).To(ConsistOf(
			HaveField("Kind", checker.StatusMismatch),
		))
		Expect(report.Cases[0].APIMessage).To(Equal("boom"))
	})
})
