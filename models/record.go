package models

import (
	"bytes"
	"encoding/json"
)

// Record - исходный JSON-объект из выгрузки, без схемы.
type Record map[string]any

// DecodeRecord разбирает один JSON-объект. Числа сохраняются как json.Number,
// чтобы приведение к целому не теряло точность. Всё, что не объект, отклоняется.
func DecodeRecord(raw []byte) (Record, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil || r == nil {
		return nil, false
	}
	return r, true
}

// Get возвращает значение поля или nil.
func (r Record) Get(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// String возвращает строковое поле или "".
func (r Record) String(key string) string {
	return ToString(r.Get(key))
}
