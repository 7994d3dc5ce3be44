package linq

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Canonical keys", func() {
	DescribeTable("equal keys",
		func(a, b any) {
			Expect(canonical(a)).To(Equal(canonical(b)))
		},
		Entry("int and float", 1, 1.0),
		Entry("sized ints", int8(7), uint64(7)),
		Entry("named strings", "x", Name("x")),
		Entry("maps in any order", map[string]any{"a": 1, "b": "c"}, map[string]any{"b": "c", "a": 1}),
		Entry("tuples and slices", Tuple{1, "a"}, []any{1, "a"}),
		Entry("nested", []any{map[string]any{"k": []int{1}}}, []any{map[string]any{"k": []any{1.0}}}),
	)

	DescribeTable("different keys",
		func(a, b any) {
			Expect(canonical(a)).NotTo(Equal(canonical(b)))
		},
		Entry("number and string", 1, "1"),
		Entry("nil and empty string", nil, ""),
		Entry("bool and string", true, "true"),
		Entry("distinct pointers", &person{}, &person{}),
		Entry("fractions", 1.5, 1.25),
		Entry("number and string map keys", map[any]any{1: "a"}, map[any]any{"1": "a"}),
	)

	It("should keep maps with number and string keys apart in distinct", func() {
		s := Of[any](map[any]any{1: "a"}, map[any]any{"1": "a"}, map[any]any{1.0: "a"})
		Expect(s.Distinct(nil).Count()).To(Equal(2))
	})

	It("should index keys in order of first insertion", func() {
		ix := newKeyIndex[string]()
		ix.add(2, "a")
		ix.add(1, "b")
		ix.add(2.0, "c")
		Expect(ix.entries()).To(HaveLen(2))
		Expect(ix.entries()[0].values).To(Equal([]string{"a", "c"}))
		Expect(ix.lookup(1).values).To(Equal([]string{"b"}))
		Expect(ix.lookup(3)).To(BeNil())
	})
})

type Name string
