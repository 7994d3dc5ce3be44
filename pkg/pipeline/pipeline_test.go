package pipeline

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/linq/pkg/linq"
	"github.com/l7mp/linq/pkg/provider"
)

var _ = Describe("Pipeline", func() {
	It("should return the source collection without stages", func() {
		res, err := run(`from: users`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"alice", "bob", "carol", "dave"}))
		Expect(res.Value).To(BeNil())
	})

	It("should filter and project", func() {
		res, err := run(`
from: users
pipeline:
  - "@where": "doc.age > 30"
  - "@select":
      name: $.name
      team:
        dept: $.dept
      source: users`)
		Expect(err).NotTo(HaveOccurred())
		want := []provider.Document{
			{"name": "alice", "team": provider.Document{"dept": "eng"}, "source": "users"},
			{"name": "carol", "team": provider.Document{"dept": "eng"}, "source": "users"},
		}
		Expect(cmp.Diff(want, res.Documents)).To(BeEmpty())
	})

	It("should sort stably", func() {
		res, err := run(`
from: users
pipeline:
  - "@orderByDescending": $.age`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"carol", "alice", "bob", "dave"}))

		res, err = run(`
from: users
pipeline:
  - "@orderBy": $.age
  - "@reverse": null`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"carol", "alice", "dave", "bob"}))
	})

	It("should page", func() {
		res, err := run(`
from: users
pipeline:
  - "@skip": 1
  - "@take": 2`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"bob", "carol"}))
	})

	It("should deduplicate by key", func() {
		res, err := run(`
from: users
pipeline:
  - "@distinct": $.age`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"alice", "bob", "carol"}))
	})

	It("should flatten nested lists", func() {
		res, err := run(`
from: users
pipeline:
  - "@selectMany": $.tags`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Documents).To(Equal([]provider.Document{
			{"value": "admin"}, {"value": "dev"}, {"value": "oncall"},
		}))
	})

	It("should group", func() {
		res, err := run(`
from: users
pipeline:
  - "@groupBy":
      key: [$.dept]
  - "@select":
      dept: $.key.dept
      count: "@count"`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Documents).To(Equal([]provider.Document{
			{"dept": "eng", "count": int64(2)},
			{"dept": "ops", "count": int64(1)},
			{"dept": "sales", "count": int64(1)},
		}))
	})

	It("should group by composite keys with custom names", func() {
		res, err := run(`
from: users
pipeline:
  - "@groupBy":
      keys: [d, a]
      key: [$.dept, $.age]
  - "@select":
      key: $.key
      items: "@items"`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Documents).To(HaveLen(4))
		Expect(res.Documents[0]["key"]).To(Equal(map[string]any{"d": "eng", "a": int64(34)}))
		Expect(res.Documents[0]["items"]).To(HaveLen(1))
	})

	It("should join", func() {
		res, err := run(`
from: users
pipeline:
  - "@join":
      from: orders
      outerKey: $.name
      innerKey: $.user
      as: order
  - "@select":
      name: $.name
      total: $.order.total`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Documents).To(Equal([]provider.Document{
			{"name": "alice", "total": 10.0},
			{"name": "alice", "total": 2.0},
			{"name": "carol", "total": 5.5},
		}))
	})

	It("should group-join", func() {
		res, err := run(`
from: users
pipeline:
  - "@groupJoin":
      from: orders
      outerKey: $.name
      innerKey: $.user`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(ConsistOf("alice", "bob", "carol", "dave"))
		for _, doc := range res.Documents {
			switch doc["name"] {
			case "alice":
				Expect(doc["orders"]).To(HaveLen(2))
			case "carol":
				Expect(doc["orders"]).To(HaveLen(1))
			default:
				Expect(doc["orders"]).To(BeEmpty())
			}
		}
	})

	It("should run set operations", func() {
		res, err := run(`
from: users
pipeline:
  - "@union":
      from: admins
      key: $.name`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"alice", "bob", "carol", "dave", "erin"}))

		res, err = run(`
from: users
pipeline:
  - "@intersect":
      from: admins
      key: $.name`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Documents).To(HaveLen(1))
		Expect(res.Documents[0]).To(HaveKeyWithValue("age", int64(34)))

		res, err = run(`
from: users
pipeline:
  - "@select":
      name: $.name
  - "@except":
      from: admins
      key: $.name`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"bob", "carol", "dave"}))
	})

	It("should fall back to a default document", func() {
		res, err := run(`
from: users
pipeline:
  - "@where": "doc.age > 100"
  - "@defaultIfEmpty":
      name: nobody`)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(res.Documents)).To(Equal([]any{"nobody"}))
	})

	It("should compile without evaluating", func() {
		q, err := Parse([]byte(`
from: users
pipeline:
  - "@where": "doc.age > 30"
  - "@take": 1`))
		Expect(err).NotTo(HaveOccurred())
		conn, err := provider.Connect(dataset)
		Expect(err).NotTo(HaveOccurred())
		p := NewPipeline(q, logger)
		seq, err := p.Compile(conn)
		Expect(err).NotTo(HaveOccurred())
		Expect(seq.Lineage().String()).To(Equal("take[1](where(from[users]))"))
		Expect(seq.String()).To(HavePrefix("Sequence<pending>"))
		Expect(p.String()).To(ContainSubstring("from=users"))
	})

	Context("errors", func() {
		It("should reject unknown stages", func() {
			_, err := run(`{"from":"users","pipeline":[{"@shuffle":null}]}`)
			Expect(err).To(MatchError(ErrInvalidQuery))
		})

		It("should reject invalid conditions", func() {
			_, err := run(`{"from":"users","pipeline":[{"@where":"doc.age >"}]}`)
			Expect(err).To(MatchError(ErrInvalidQuery))
		})

		It("should reject invalid arguments", func() {
			_, err := run(`{"from":"users","pipeline":[{"@take":"many"}]}`)
			Expect(err).To(MatchError(ErrInvalidQuery))

			_, err = run(`{"from":"users","pipeline":[{"@take":-1}]}`)
			Expect(err).To(MatchError(linq.ErrInvalidArgument))
		})

		It("should report unknown collections", func() {
			_, err := run(`from: nothing`)
			Expect(err).To(MatchError(provider.ErrUnknownCollection))

			_, err = run(`{"from":"users","pipeline":[{"@join":{"from":"nothing","outerKey":"$.a","innerKey":"$.b"}}]}`)
			Expect(err).To(MatchError(provider.ErrUnknownCollection))
		})

		It("should report evaluation errors", func() {
			_, err := run(`{"from":"users","pipeline":[{"@where":"doc.missing > 1"}]}`)
			Expect(err).To(HaveOccurred())
		})

		It("should report incomparable sort keys", func() {
			_, err := run(`{"from":"users","pipeline":[{"@orderBy":"$."}]}`)
			Expect(err).To(MatchError(linq.ErrType))
		})
	})
})

var _ = Describe("Aggregates", func() {
	DescribeTable("numeric aggregates",
		func(op string, want any) {
			res, err := run(`{"from":"users","aggregate":{"` + op + `":"$.age"}}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Documents).To(BeNil())
			Expect(res.Value).To(Equal(want))
		},
		Entry("sum", "@sum", 125.0),
		Entry("min", "@min", 25.0),
		Entry("max", "@max", 41.0),
		Entry("avg", "@avg", 31.25),
		Entry("median", "@median", 29.5),
	)

	It("should count", func() {
		res, err := run(`{"from":"users","pipeline":[{"@where":"doc.dept == 'eng'"}],"aggregate":{"@count":null}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(Equal(2))
	})

	It("should pick elements", func() {
		res, err := run(`{"from":"users","aggregate":{"@first":null}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(HaveKeyWithValue("name", "alice"))

		res, err = run(`{"from":"users","aggregate":{"@first":"doc.age < 30"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(HaveKeyWithValue("name", "bob"))

		res, err = run(`{"from":"users","aggregate":{"@last":"doc.age < 30"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(HaveKeyWithValue("name", "dave"))

		res, err = run(`{"from":"users","aggregate":{"@elementAt":2}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(HaveKeyWithValue("name", "carol"))

		res, err = run(`{"from":"users","aggregate":{"@single":"doc.name == 'carol'"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(HaveKeyWithValue("age", int64(41)))
	})

	It("should test for matches", func() {
		res, err := run(`{"from":"users","aggregate":{"@any":"doc.age > 40"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(BeTrue())

		res, err = run(`{"from":"users","aggregate":{"@any":"doc.age > 50"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Value).To(BeFalse())
	})

	It("should fail on empty inputs", func() {
		_, err := run(`{"from":"users","pipeline":[{"@where":"false"}],"aggregate":{"@min":"$.age"}}`)
		Expect(err).To(MatchError(linq.ErrNoElements))

		_, err = run(`{"from":"users","aggregate":{"@first":"doc.age > 50"}}`)
		Expect(err).To(MatchError(linq.ErrNoElements))

		_, err = run(`{"from":"users","aggregate":{"@elementAt":9}}`)
		Expect(err).To(MatchError(linq.ErrNoElements))
	})

	It("should enforce single matches", func() {
		_, err := run(`{"from":"users","aggregate":{"@single":"doc.age == 25"}}`)
		Expect(err).To(MatchError(linq.ErrMoreThanOneMatchingElement))

		_, err = run(`{"from":"users","aggregate":{"@single":null}}`)
		Expect(err).To(MatchError(ErrInvalidQuery))
	})

	It("should reject unknown aggregates", func() {
		_, err := run(`{"from":"users","aggregate":{"@mode":"$.age"}}`)
		Expect(err).To(MatchError(ErrInvalidQuery))
	})
})
