package dedup_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/dedup"
	"github.com/resourcesniffer/sniffercore/stats"
	"github.com/resourcesniffer/sniffercore/xaction"
)

var _ = Describe("Pool.Dispatch", func() {
	var (
		reg  *xaction.Registry
		pool *dedup.Pool
		sink *stats.Sink
	)

	BeforeEach(func() {
		reg = xaction.NewRegistry()
		sink = stats.NewNopSink()
		pool = dedup.NewPool(reg, 3, sink)
	})

	It("produces the same classification as the sequential algorithm", func() {
		records := []*cluster.Resource{
			{URL: "https://example.com/a.jpg?x=1", Type: cmn.TypeImage, Quality: cmn.QualityHD},
			{URL: "https://example.com/a.jpg?x=2", Type: cmn.TypeImage, Quality: cmn.QualityLD},
			{URL: "https://example.com/v.mp4", Type: cmn.TypeVideo},
		}

		got, err := pool.Dispatch(context.Background(), records)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Uniques).To(HaveLen(2))
		Expect(got.Similars).To(HaveLen(1))
	})

	It("tolerates an empty input", func() {
		got, err := pool.Dispatch(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Uniques).To(BeEmpty())
	})

	It("runs partitions concurrently without corrupting the merged result", func() {
		var records []*cluster.Resource
		types := []cmn.ResourceType{cmn.TypeImage, cmn.TypeVideo, cmn.TypeAudio, cmn.TypeDocument}
		for i, typ := range types {
			for j := 0; j < 5; j++ {
				records = append(records, &cluster.Resource{
					URL:  exampleURL(typ, i, j),
					Type: typ,
				})
			}
		}

		got, err := pool.Dispatch(context.Background(), records)
		Expect(err).NotTo(HaveOccurred())
		total := len(got.Uniques) + len(got.Duplicates) + len(got.Similars)
		Expect(total).To(Equal(len(records)))
	})
})

func exampleURL(typ cmn.ResourceType, i, j int) string {
	return "https://example.com/" + string(typ) + "/" + itoa(i) + "/" + itoa(j) + ".bin"
}

func itoa(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return string(b)
}
