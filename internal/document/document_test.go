package document

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{
			name:  "number",
			input: `42.5`,
			want:  42.5,
		},
		{
			name:  "string",
			input: `"hello"`,
			want:  "hello",
		},
		{
			name:  "bool",
			input: `true`,
			want:  true,
		},
		{
			name:  "null",
			input: `null`,
			want:  nil,
		},
		{
			name:  "array",
			input: `[1, "two", false]`,
			want:  []any{1.0, "two", false},
		},
		{
			name:  "nested_object",
			input: `{"a": {"b": [1, 2]}}`,
			want:  map[string]any{"a": map[string]any{"b": []any{1.0, 2.0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.input, err)
			}
			if got := v.Interface(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ``},
		{name: "unterminated_object", input: `{"a": 1`},
		{name: "trailing_data", input: `{} []`},
		{name: "bare_word", input: `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.input)); !errors.Is(err, ErrDecode) {
				t.Errorf("Decode(%q) error = %v, want ErrDecode", tt.input, err)
			}
		})
	}
}

func TestObjectOrder(t *testing.T) {
	v, err := Decode([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("Decode() = %T, want *Object", v)
	}

	want := []string{"z", "a", "m"}
	if !reflect.DeepEqual(obj.Names(), want) {
		t.Errorf("Names() = %v, want %v", obj.Names(), want)
	}
}

func TestNumberCoercions(t *testing.T) {
	tests := []struct {
		name       string
		value      Value
		wantNumber float64
		wantString string
	}{
		{name: "number", value: Number(6.5), wantNumber: 6.5, wantString: "6.5"},
		{name: "integral_number", value: Number(4), wantNumber: 4, wantString: "4"},
		{name: "numeric_string", value: String("2.25"), wantNumber: 2.25, wantString: "2.25"},
		{name: "non_numeric_string", value: String("abc"), wantNumber: 0, wantString: "abc"},
		{name: "true", value: Bool(true), wantNumber: 1, wantString: "true"},
		{name: "false", value: Bool(false), wantNumber: 0, wantString: "false"},
		{name: "null", value: Null{}, wantNumber: 0, wantString: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.AsNumber(); got != tt.wantNumber {
				t.Errorf("AsNumber() = %v, want %v", got, tt.wantNumber)
			}
			if got := tt.value.AsString(); got != tt.wantString {
				t.Errorf("AsString() = %q, want %q", got, tt.wantString)
			}
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	original := Binary{0xde, 0xad, 0xbe, 0xef}

	encoded := original.AsString()
	if encoded != "3q2+7w==" {
		t.Fatalf("AsString() = %q, want %q", encoded, "3q2+7w==")
	}

	decoded, err := BinaryFromBase64(encoded)
	if err != nil {
		t.Fatalf("BinaryFromBase64(%q) error = %v", encoded, err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("BinaryFromBase64(%q) = %v, want %v", encoded, decoded, original)
	}
}

func TestBinaryFromBase64Invalid(t *testing.T) {
	if _, err := BinaryFromBase64("not base64!"); err == nil {
		t.Error("BinaryFromBase64() with invalid input should fail")
	}
}

func TestArrayBuilder(t *testing.T) {
	arr := NewArray()
	arr.Append(String("a"))
	arr.Append(Number(1))

	if arr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", arr.Len())
	}
	if got := arr.At(0).AsString(); got != "a" {
		t.Errorf("At(0).AsString() = %q, want %q", got, "a")
	}

	want := []any{"a", 1.0}
	if !reflect.DeepEqual(arr.Interface(), want) {
		t.Errorf("Interface() = %v, want %v", arr.Interface(), want)
	}
}

func TestMarshal(t *testing.T) {
	arr := NewArray(String("a"), Number(1), Null{})
	data, err := Marshal(arr)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `["a",1,null]` {
		t.Errorf("Marshal() = %s, want %s", data, `["a",1,null]`)
	}
}
