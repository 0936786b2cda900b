package value

import "encoding/json"

type jsonValue struct {
	Kind     string `json:"kind"`
	URI      string `json:"uri,omitempty"`
	Lexical  string `json:"lexical,omitempty"`
	Datatype string `json:"datatype,omitempty"`
	Language string `json:"language,omitempty"`
	Name     string `json:"name,omitempty"`
}

func (r Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue{Kind: TypeResource, URI: r.URI})
}

func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue{Kind: TypeLiteral, Lexical: l.Lexical, Datatype: l.Datatype, Language: l.Language})
}

func (v *Variable) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue{Kind: TypeVariable, Name: v.Name})
}
