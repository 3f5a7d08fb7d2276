package form_test

import (
	"fmt"

	"sheetform/internal/form"
)

func ExampleEncode() {
	endpoint, _ := form.ParseEndpoint("https://script.example.com/exec")

	record := form.NewRecord(
		form.Field{Key: "name", Value: "A"},
		form.Field{Key: "age", Value: 5},
		form.Field{Key: "note", Value: nil},
	)

	fmt.Println(form.Encode(endpoint, record))
	// Output: https://script.example.com/exec?name=A&age=5&note=
}

func ExampleValidate() {
	record := form.NewRecord(
		form.Field{Key: "name", Value: ""},
		form.Field{Key: "email", Value: "a@b.com"},
	)

	fmt.Println(form.Validate(record, []string{"name", "email"}))
	// Output: name is required
}
