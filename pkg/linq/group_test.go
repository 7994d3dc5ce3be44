package linq

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type unordered struct{ id int }

var _ = Describe("Grouping", func() {
	keysOf := func(s *Sequence[*Grouping[person]]) []any {
		ret := []any{}
		for g := range s.All() {
			ret = append(ret, g.KeyValue())
		}
		return ret
	}

	Describe("GroupBy", func() {
		It("should group by key in ascending key order", func() {
			s := GroupBy(Of(people...), []string{"dept"}, func(p person) any { return p.Dept })
			Expect(keysOf(s)).To(Equal([]any{"eng", "ops", "sales"}))

			groups, err := s.ToList()
			Expect(err).NotTo(HaveOccurred())
			Expect(groups[0].Count()).To(Equal(2))
			Expect(Select(groups[0].Sequence, func(p person) string { return p.Name }).ToList()).
				To(Equal([]string{"alice", "carol"}))

			v, ok := groups[0].Key().Get("dept")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("eng"))
		})

		It("should bind scalar keys to the key name", func() {
			s := GroupBy(Of(3, 1, 2), []string{"id"}, identity[int])
			groups, err := s.ToList()
			Expect(err).NotTo(HaveOccurred())
			ids := []any{}
			for _, g := range groups {
				id, _ := g.Key().Get("id")
				ids = append(ids, id)
			}
			Expect(ids).To(Equal([]any{1, 2, 3}))
		})

		It("should bind composite keys positionally", func() {
			s := GroupBy(Of(people...), []string{"age", "dept"}, func(p person) any {
				return Tuple{p.Age, p.Dept}
			})
			groups, err := s.ToList()
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(4))
			Expect(groups[0].Key().Names()).To(Equal([]string{"age", "dept"}))
			Expect(groups[0].Key().Values()).To(Equal([]any{25, "ops"}))
			Expect(groups[1].Key().Values()).To(Equal([]any{25, "sales"}))
			Expect(groups[0].Key().String()).To(Equal("{age: 25, dept: ops}"))
			Expect(groups[0].String()).To(ContainSubstring("age: 25"))

			b, err := json.Marshal(groups[0].Key())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal(`{"age":25,"dept":"ops"}`))
		})

		It("should drop key components without a name", func() {
			s := GroupBy(Of(people...), []string{"age"}, func(p person) any { return []any{p.Age, p.Dept} })
			g, err := s.First(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Key().Len()).To(Equal(1))
			Expect(g.Key().ToMap()).To(Equal(map[string]any{"age": 25}))
		})

		It("should fail for more names than key components", func() {
			_, err := GroupBy(Of(people...), []string{"age", "dept", "name"}, func(p person) any {
				return Tuple{p.Age, p.Dept}
			}).ToList()
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("should keep input order for keys that cannot be ordered", func() {
			a, b := &unordered{1}, &unordered{2}
			s := GroupBy(Of(b, a, b), []string{"obj"}, identity[*unordered]).WithLogger(logger)
			groups, err := s.ToList()
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(2))
			Expect(groups[0].KeyValue()).To(BeIdenticalTo(b))
			Expect(groups[0].Count()).To(Equal(2))
			Expect(groups[1].KeyValue()).To(BeIdenticalTo(a))
		})

		It("should treat numerically equal keys as one group", func() {
			s := GroupBy(Of[any](1, 1.0, int64(1), 2), []string{"n"}, nil)
			Expect(s.Count()).To(Equal(2))
		})

		It("should project the groups", func() {
			s := GroupBySelect(Of(people...), []string{"dept"}, func(p person) any { return p.Dept },
				func(g *Grouping[person]) int { n, _ := g.Count(); return n })
			Expect(s.ToList()).To(Equal([]int{2, 1, 1}))
		})
	})

	Describe("Distinct", func() {
		It("should remove duplicates keeping the first occurrence", func() {
			Expect(Of(1, 2, 2, 3).Distinct(nil).ToList()).To(Equal([]int{1, 2, 3}))
			Expect(Of(3, 1, 3, 2, 1).Distinct(nil).ToList()).To(Equal([]int{3, 1, 2}))
		})

		It("should deduplicate by key", func() {
			s := Of(people...).Distinct(func(p person) any { return p.Age })
			Expect(Select(s, func(p person) string { return p.Name }).ToList()).
				To(Equal([]string{"alice", "bob", "carol"}))
		})

		It("should be idempotent", func() {
			s := Of(1, 1, 2, 3, 3, 3).Distinct(nil)
			once, err := s.ToList()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Distinct(nil).ToList()).To(Equal(once))
			Expect(len(once)).To(BeNumerically("<=", 6))
		})

		It("should compare structured keys by value", func() {
			s := Of[any](map[string]any{"a": 1, "b": 2}, map[string]any{"b": 2.0, "a": 1}, []int{1})
			Expect(s.Distinct(nil).Count()).To(Equal(2))
		})
	})
})
