package jsondoc_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/securescore/internal/domain/jsondoc"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given JSON documents of every kind", t, func() {
		Convey("When parsing an object", func() {
			v, err := jsondoc.Parse([]byte(`{"b":1,"a":"x","c":null}`))

			Convey("Then members keep document order", func() {
				So(err, ShouldBeNil)
				So(v.Kind(), ShouldEqual, jsondoc.KindObject)
				obj := v.(jsondoc.Object)
				So(len(obj.Members), ShouldEqual, 3)
				So(obj.Members[0].Key, ShouldEqual, "b")
				So(obj.Members[1].Key, ShouldEqual, "a")
				So(obj.Members[2].Value.Kind(), ShouldEqual, jsondoc.KindOther)
			})
		})

		Convey("When parsing nested arrays", func() {
			v, err := jsondoc.Parse([]byte(`[[{"x":1}], 2, "s", true]`))

			Convey("Then each element gets its own kind", func() {
				So(err, ShouldBeNil)
				arr := v.(jsondoc.Array)
				So(len(arr.Elems), ShouldEqual, 4)
				So(arr.Elems[0].Kind(), ShouldEqual, jsondoc.KindArray)
				So(arr.Elems[1].Kind(), ShouldEqual, jsondoc.KindNumber)
				So(arr.Elems[2].Kind(), ShouldEqual, jsondoc.KindString)
				So(arr.Elems[3].Kind(), ShouldEqual, jsondoc.KindOther)
			})
		})

		Convey("When the last duplicate key is looked up", func() {
			v, err := jsondoc.Parse([]byte(`{"k":1,"k":2}`))
			So(err, ShouldBeNil)
			got, ok := v.(jsondoc.Object).Get("k")

			Convey("Then the last occurrence wins", func() {
				So(ok, ShouldBeTrue)
				So(got.(jsondoc.Number).Literal.String(), ShouldEqual, "2")
			})
		})

		Convey("When the text is malformed", func() {
			for _, in := range []string{``, `{`, `{"a":}`, `[1,]`, `[1] [2]`, `{"a":1} x`} {
				_, err := jsondoc.Parse([]byte(in))
				So(err, ShouldNotBeNil)
				So(errors.Is(err, jsondoc.ErrSyntax), ShouldBeTrue)
			}
		})

		Convey("When arrays are nested down to the depth limit", func() {
			in := strings.Repeat("[", jsondoc.MaxDepth) + strings.Repeat("]", jsondoc.MaxDepth)
			v, err := jsondoc.Parse([]byte(in))

			Convey("Then the document is accepted", func() {
				So(err, ShouldBeNil)
				So(v.Kind(), ShouldEqual, jsondoc.KindArray)
			})
		})

		Convey("When nesting goes one level past the limit", func() {
			n := jsondoc.MaxDepth + 1
			_, err := jsondoc.Parse([]byte(strings.Repeat("[", n) + strings.Repeat("]", n)))

			Convey("Then it is a syntax error", func() {
				So(errors.Is(err, jsondoc.ErrSyntax), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "max depth")
			})
		})

		Convey("When objects and arrays nest far beyond the limit without closing", func() {
			_, err := jsondoc.Parse([]byte(strings.Repeat(`{"a":[`, 1_000_000)))

			Convey("Then parsing stops with a syntax error", func() {
				So(errors.Is(err, jsondoc.ErrSyntax), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "max depth")
			})
		})
	})
}

func TestMarshal(t *testing.T) {
	Convey("Given a parsed document", t, func() {
		in := `{"scorePercentage":80,"currentScore":40.25,"note":"<ok>","flag":false,"nested":[1,2.50,{"z":null}]}`
		v, err := jsondoc.Parse([]byte(in))
		So(err, ShouldBeNil)

		Convey("When it is marshalled compactly", func() {
			out, err := jsondoc.Marshal(v)

			Convey("Then the original text is reproduced byte for byte", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, in)
			})
		})

		Convey("When it is marshalled with indentation", func() {
			out, err := jsondoc.MarshalIndent(v, "", "  ")
			So(err, ShouldBeNil)

			Convey("Then parsing it again yields the same compact form", func() {
				again, err := jsondoc.Parse(out)
				So(err, ShouldBeNil)
				compact, err := jsondoc.Marshal(again)
				So(err, ShouldBeNil)
				So(string(compact), ShouldEqual, in)
			})
		})
	})

	Convey("Given numbers built from Go values", t, func() {
		So(string(jsondoc.FloatNumber(85).Literal), ShouldEqual, "85")
		So(string(jsondoc.FloatNumber(0.1).Literal), ShouldEqual, "0.1")
		So(string(jsondoc.IntNumber(42).Literal), ShouldEqual, "42")

		Convey("Then an empty literal refuses to encode", func() {
			_, err := jsondoc.Marshal(jsondoc.Number{})
			So(errors.Is(err, jsondoc.ErrEncode), ShouldBeTrue)
		})
	})

	Convey("Given a string written with escapes", t, func() {
		v, err := jsondoc.Parse([]byte(`{"n":"caf\u00e9 \u003c1\u003e","q":"a\"b"}`))
		So(err, ShouldBeNil)

		Convey("When it is marshalled", func() {
			out, err := jsondoc.Marshal(v)

			Convey("Then the text is kept but the escapes are normalised", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"n":"café <1>","q":"a\"b"}`)
			})
		})
	})
}
