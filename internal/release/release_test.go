package release_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/hyperfind/internal/release"
)

type stubClient struct {
	rel *release.Release
	err error
}

func (s *stubClient) LatestRelease(_ context.Context, _, _ string) (*release.Release, error) {
	return s.rel, s.err
}

var _ = Describe("Checker", func() {
	DescribeTable("compares versions",
		func(current, latest string, want bool) {
			checker := release.NewChecker(current, &stubClient{
				rel: &release.Release{TagName: latest},
			})

			status, err := checker.Check(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(status.UpdateAvailable).To(Equal(want))
			Expect(status.Latest).To(Equal(latest))
		},
		Entry("older build", "1.0.0", "v2.0.0", true),
		Entry("same build", "v1.2.0", "v1.2.0", false),
		Entry("newer build", "2.0.0", "v1.9.9", false),
		Entry("dev build", "dev", "v0.1.0", true),
	)

	It("rejects an unparsable current version", func() {
		checker := release.NewChecker("not-a-version", &stubClient{
			rel: &release.Release{TagName: "v1.0.0"},
		})

		_, err := checker.Check(context.Background())
		Expect(err).To(MatchError(ContainSubstring("parsing current version")))
	})

	It("propagates client errors", func() {
		checker := release.NewChecker("1.0.0", &stubClient{err: release.ErrNoReleases})

		_, err := checker.Check(context.Background())
		Expect(err).To(MatchError(release.ErrNoReleases))
	})
})

var _ = Describe("SDKClient", func() {
	var server *httptest.Server

	AfterEach(func() {
		server.Close()
	})

	It("reads the latest release", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/repos/smykla-skalski/hyperfind/releases/latest"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"tag_name":"v1.4.0","name":"1.4.0","html_url":"https://example.test/r"}`))
		}))

		client, err := release.NewClientWithBaseURL(server.Client(), server.URL)
		Expect(err).NotTo(HaveOccurred())

		rel, err := client.LatestRelease(context.Background(), release.Owner, release.Repo)
		Expect(err).NotTo(HaveOccurred())
		Expect(rel.TagName).To(Equal("v1.4.0"))
		Expect(rel.HTMLURL).To(Equal("https://example.test/r"))
	})

	It("maps 404 to ErrNoReleases", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		}))

		client, err := release.NewClientWithBaseURL(server.Client(), server.URL)
		Expect(err).NotTo(HaveOccurred())

		_, err = client.LatestRelease(context.Background(), release.Owner, release.Repo)
		Expect(err).To(MatchError(release.ErrNoReleases))
	})
})
