package decoder_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/casefixtures/internal/decoder"
	"github.com/fjglira/casefixtures/internal/domain"
)

type operands struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
}

var (
	operandsType = reflect.TypeFor[operands]()
	intType      = reflect.TypeFor[int]()
	formatsDir   = filepath.Join("..", "..", "testdata", "cases", "formats")
)

var _ = Describe("Decoder", func() {
	var d *decoder.Decoder

	BeforeEach(func() {
		d = decoder.NewDecoder(nil, decoder.Options{})
	})

	Describe("Decode", func() {
		It("should decode both fields into the target types", func() {
			tuple, err := d.Decode([]byte(`{"request": {"a": 1, "b": 2}, "response": 3}`),
				[]reflect.Type{operandsType, intType}, "cases/one.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple).To(HaveLen(3))
			Expect(tuple[0]).To(Equal(operands{A: 1, B: 2}))
			Expect(tuple[1]).To(Equal(3))
			Expect(tuple[2]).To(Equal("#### cases/one.json ####"))
		})

		It("should use zero values for absent fields", func() {
			tuple, err := d.Decode([]byte(`{"request": {"a": 1}}`),
				[]reflect.Type{operandsType, intType}, "one.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[0]).To(Equal(operands{A: 1}))
			Expect(tuple[1]).To(Equal(0))
		})

		It("should treat null as absent", func() {
			tuple, err := d.Decode([]byte(`{"request": null, "response": null}`),
				[]reflect.Type{reflect.TypeFor[*operands](), reflect.TypeFor[[]string]()}, "one.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[0]).To(BeNil())
			Expect(tuple[1]).To(BeNil())
		})

		It("should match field names case-insensitively and ignore unknown fields", func() {
			tuple, err := d.Decode([]byte(`{"Request": {"a": 4}, "RESPONSE": 8, "note": "x"}`),
				[]reflect.Type{operandsType, intType}, "one.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[0]).To(Equal(operands{A: 4}))
			Expect(tuple[1]).To(Equal(8))
		})

		It("should decode into untyped targets", func() {
			anyType := reflect.TypeFor[any]()
			tuple, err := d.Decode([]byte(`{"request": [1, "x"], "response": {"k": true}}`),
				[]reflect.Type{anyType, anyType}, "one.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[0]).To(Equal([]any{1.0, "x"}))
			Expect(tuple[1]).To(Equal(map[string]any{"k": true}))
		})

		It("should name the file and field on type mismatches", func() {
			_, err := d.Decode([]byte(`{"request": {"a": "one"}, "response": 3}`),
				[]reflect.Type{operandsType, intType}, "cases/bad.json")
			Expect(err).To(HaveOccurred())
			Expect(domain.IsPhase(err, domain.PhaseDecode)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("cases/bad.json"))
			Expect(err.Error()).To(ContainSubstring(`"request"`))
		})

		It("should fail on malformed content", func() {
			_, err := d.Decode([]byte(`{"request": `), []reflect.Type{operandsType, intType}, "cases/broken.json")
			Expect(domain.IsPhase(err, domain.PhaseDecode)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("cases/broken.json"))
		})

		It("should fail when the top level is not an object", func() {
			_, err := d.Decode([]byte(`[1, 2]`), []reflect.Type{operandsType, intType}, "list.json")
			Expect(domain.IsPhase(err, domain.PhaseDecode)).To(BeTrue())

			_, err = d.Decode([]byte("  "), []reflect.Type{operandsType, intType}, "blank.json")
			Expect(domain.IsPhase(err, domain.PhaseDecode)).To(BeTrue())
		})

		It("should require exactly two target types", func() {
			_, err := d.Decode([]byte(`{}`), []reflect.Type{intType}, "one.json")
			Expect(domain.IsPhase(err, domain.PhaseCaller)).To(BeTrue())

			_, err = d.Decode([]byte(`{}`), []reflect.Type{intType, intType, intType}, "one.json")
			Expect(domain.IsPhase(err, domain.PhaseCaller)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("got 3"))
		})

		It("should skip a leading byte order mark", func() {
			tuple, err := d.Decode([]byte("\xEF\xBB\xBF{\"request\": 1, \"response\": 2}"),
				[]reflect.Type{intType, intType}, "bom.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[0]).To(Equal(1))
			Expect(tuple[1]).To(Equal(2))

			tuple, err = d.Decode([]byte("\xEF\xBB\xBFrequest: 3\nresponse: 4\n"),
				[]reflect.Type{intType, intType}, "bom.yaml")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[1]).To(Equal(4))
		})

		It("should decode unknown extensions as JSON", func() {
			tuple, err := d.Decode([]byte(`{"request": {"a": 7}, "response": 7}`),
				[]reflect.Type{operandsType, intType}, "case.data")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[1]).To(Equal(7))
		})
	})

	Describe("Present", func() {
		It("should report which envelope fields are defined", func() {
			in, out, err := d.Present([]byte(`{"Request": 1}`), "one.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(in).To(BeTrue())
			Expect(out).To(BeFalse())

			in, out, err = d.Present([]byte(`{"foo": 1}`), "one.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(in || out).To(BeFalse())
		})

		It("should fail on malformed content", func() {
			_, _, err := d.Present([]byte(`{`), "broken.json")
			Expect(domain.IsPhase(err, domain.PhaseDecode)).To(BeTrue())
		})
	})

	Describe("Options", func() {
		It("should honor custom field names and marker", func() {
			d = decoder.NewDecoder(nil, decoder.Options{InputField: "input", OutputField: "expected", Marker: ">>"})
			tuple, err := d.Decode([]byte(`{"input": {"b": 2}, "expected": 2, "request": {"a": 9}}`),
				[]reflect.Type{operandsType, intType}, "c.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(tuple[0]).To(Equal(operands{B: 2}))
			Expect(tuple.Label()).To(Equal(">> c.json >>"))

			in, out := d.Fields()
			Expect(in).To(Equal("input"))
			Expect(out).To(Equal("expected"))
		})
	})

	Describe("codecs", func() {
		DescribeTable("should decode the same case from every format",
			func(name string) {
				content, err := os.ReadFile(filepath.Join(formatsDir, name))
				Expect(err).ToNot(HaveOccurred())

				tuple, err := d.Decode(content, []reflect.Type{operandsType, intType}, name)
				Expect(err).ToNot(HaveOccurred())
				Expect(tuple[0]).To(Equal(operands{A: 2, B: 3}))
				Expect(tuple[1]).To(Equal(5))
			},
			Entry("json", "sum.json"),
			Entry("yaml", "sum.yaml"),
			Entry("markdown", "sum.md"),
			Entry("txtar", "sum.txtar"),
			Entry("asciidoc", "sum.adoc"),
		)

		It("should reject a YAML sequence at the top level", func() {
			_, err := d.Decode([]byte("- 1\n- 2\n"), []reflect.Type{intType, intType}, "c.yaml")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("mapping"))
		})

		It("should reject Markdown documents defining a field twice", func() {
			md := "```json field=request\n1\n```\n\n```json field=request\n2\n```\n"
			_, err := d.Decode([]byte(md), []reflect.Type{intType, intType}, "c.md")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("defined twice"))
		})

		It("should reject unclosed AsciiDoc blocks", func() {
			adoc := "[source,json,field=request]\n----\n1\n"
			_, err := d.Decode([]byte(adoc), []reflect.Type{intType, intType}, "c.adoc")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not closed"))
		})

		It("should reject txtar members in unknown languages", func() {
			_, err := d.Decode([]byte("-- request.toml --\na = 1\n"), []reflect.Type{intType, intType}, "c.txtar")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("request.toml"))
		})
	})

	Describe("DecodeAs", func() {
		It("should round-trip an encoded envelope", func() {
			want := decoder.Envelope[operands, []string]{
				Request:  operands{A: -3, B: 11},
				Response: []string{"x", "y"},
			}
			content, err := json.Marshal(want)
			Expect(err).ToNot(HaveOccurred())

			got, label, err := decoder.DecodeAs[operands, []string](d, content, "rt.json")
			Expect(err).ToNot(HaveOccurred())
			Expect(cmp.Diff(want, got)).To(BeEmpty())
			Expect(label).To(Equal("#### rt.json ####"))
		})

		It("should propagate decode errors", func() {
			_, _, err := decoder.DecodeAs[int, int](d, []byte(`{"request": "x"}`), "bad.json")
			Expect(domain.IsPhase(err, domain.PhaseDecode)).To(BeTrue())
		})
	})
})
