package linq

import (
	"iter"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"
)

type numbers []int

func (n numbers) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, v := range n {
			if !yield(v) {
				return
			}
		}
	}
}

var _ = Describe("Sequence", func() {
	Describe("Construction", func() {
		It("should treat the zero value as an empty sequence", func() {
			var s Sequence[int]
			Expect(s.Count()).To(Equal(0))
			Expect(s.ToList()).To(BeEmpty())
			Expect(s.Where(func(int) bool { return true }).Count()).To(Equal(0))
			Expect(s.String()).To(Equal("Sequence<0 elements>{empty}"))
		})

		It("should create an empty sequence from nil", func() {
			s, err := From[int](nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.ToList()).To(BeEmpty())
		})

		It("should accept slices, iterators, channels and enumerables", func() {
			ch := make(chan int, 3)
			ch <- 1
			ch <- 2
			ch <- 3
			close(ch)

			inputs := []any{
				[]int{1, 2, 3},
				iter.Seq[int](numbers{1, 2, 3}.All()),
				func(yield func(int) bool) { _ = yield(1) && yield(2) && yield(3) },
				ch,
				numbers{1, 2, 3},
				Of(1, 2, 3),
			}
			for _, in := range inputs {
				s, err := From[int](in)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.ToList()).To(Equal([]int{1, 2, 3}), "input %T", in)
			}
		})

		It("should return a sequence argument as is", func() {
			s := Of(1, 2)
			r, err := From[int](s)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeIdenticalTo(s))
		})

		It("should reject non-iterable input", func() {
			_, err := From[int](42)
			Expect(err).To(MatchError(ErrInvalidArgument))

			s := New[int]("abc")
			Expect(s.Err()).To(MatchError(ErrInvalidArgument))
			_, err = s.Count()
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("should copy slices", func() {
			src := []int{1, 2, 3}
			s := FromSlice(src)
			src[0] = 100
			Expect(s.ToList()).To(Equal([]int{1, 2, 3}))
		})

		It("should support the short list alias", func() {
			Expect(List("a", "b").ToList()).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("Re-iteration", func() {
		It("should yield the same elements on every traversal of a one-shot iterator", func() {
			pulled := 0
			s := FromSeq(iter.Seq[int](oneShot(&pulled, 1, 2, 3)))
			Expect(s.ToList()).To(Equal([]int{1, 2, 3}))
			Expect(s.ToList()).To(Equal([]int{1, 2, 3}))
			Expect(s.Count()).To(Equal(3))
			Expect(pulled).To(Equal(3))
		})

		It("should replay a partially consumed iterator from the buffer", func() {
			pulled := 0
			s := FromSeq(iter.Seq[int](oneShot(&pulled, 1, 2, 3, 4)))
			Expect(s.First(nil)).To(Equal(1))
			Expect(pulled).To(Equal(1))
			Expect(s.Take(2).ToList()).To(Equal([]int{1, 2}))
			Expect(pulled).To(Equal(2))
			Expect(s.ToList()).To(Equal([]int{1, 2, 3, 4}))
			Expect(pulled).To(Equal(4))
		})

		It("should keep derived sequences re-iterable over a channel", func() {
			ch := make(chan int, 4)
			for i := range 4 {
				ch <- i
			}
			close(ch)
			s := FromChan(ch).Where(func(v int) bool { return v%2 == 0 })
			Expect(s.ToList()).To(Equal([]int{0, 2}))
			Expect(s.ToList()).To(Equal([]int{0, 2}))
		})

		It("should capture the elements of a derived sequence after a full traversal", func() {
			calls := 0
			s := Select(Of(1, 2, 3), func(v int) int { calls++; return v * 10 })
			Expect(s.ToList()).To(Equal([]int{10, 20, 30}))
			Expect(s.ToList()).To(Equal([]int{10, 20, 30}))
			Expect(calls).To(Equal(3))
			Expect(s.String()).To(ContainSubstring("3 elements"))
		})

		It("should not capture a partial traversal", func() {
			calls := 0
			s := Select(Of(1, 2, 3), func(v int) int { calls++; return v })
			Expect(s.First(nil)).To(Equal(1))
			Expect(s.String()).To(ContainSubstring("pending"))
			Expect(s.ToList()).To(Equal([]int{1, 2, 3}))
			Expect(calls).To(Equal(4))
		})

		It("should support range-over-func iteration", func() {
			got := []int{}
			for v := range Of(1, 2, 3).All() {
				if v == 3 {
					break
				}
				got = append(got, v)
			}
			Expect(got).To(Equal([]int{1, 2}))
		})

		It("should support nested traversals of the same sequence", func() {
			pulled := 0
			s := FromSeq(iter.Seq[int](oneShot(&pulled, 1, 2)))
			pairs := 0
			for range s.All() {
				for range s.All() {
					pairs++
				}
			}
			Expect(pairs).To(Equal(4))
			Expect(pulled).To(Equal(2))
		})
	})

	Describe("Replay buffer", func() {
		var opt goleak.Option

		BeforeEach(func() {
			opt = goleak.IgnoreCurrent()
		})

		It("should stop the pull coroutine when the source is exhausted", func() {
			s := FromSeq(iter.Seq[int](numbers{1, 2, 3}.All()))
			Expect(s.ToList()).To(HaveLen(3))
			goleak.VerifyNone(GinkgoT(), opt)
		})

		It("should release an abandoned pull coroutine", func() {
			func() {
				s := FromSeq(iter.Seq[int](numbers{1, 2, 3}.All()))
				Expect(s.First(nil)).To(Equal(1))
			}()
			Eventually(func() error {
				runtime.GC()
				return goleak.Find(opt)
			}).Should(Succeed())
		})
	})

	Describe("Ambient", func() {
		It("should propagate the logger to derived sequences", func() {
			s := Of(1, 2, 3).WithLogger(logger)
			d := s.Where(func(v int) bool { return v > 1 }).Take(1)
			Expect(d.log).To(Equal(logger))
			Expect(d.ToList()).To(Equal([]int{2}))
		})

		It("should record the lineage", func() {
			s := Of(1, 2, 3).Where(func(v int) bool { return v > 1 }).Take(1)
			Expect(s.Lineage().String()).To(Equal("take[1](where(from[values:3]))"))
			Expect(s.Lineage().Depth()).To(Equal(3))

			j := Join[int, int](Of(1), Of(2), nil, nil)
			Expect(j.Lineage().Inputs).To(HaveLen(2))
		})
	})
})
