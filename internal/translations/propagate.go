package translations

// ApplyToOne resolves the translation of entity and writes every field in
// fields onto it. Fields the translation lacks, or leaves empty, are set to "".
func ApplyToOne(entity Translatable, resolve ResolveFunc, fields []string) {
	if entity == nil {
		return
	}
	var translation *Translation
	if resolve != nil {
		translation = resolve(entity)
	}
	for _, field := range fields {
		entity.SetTranslatedField(field, translation.Value(field))
	}
}

// ApplyToMany applies translations to each entity independently.
func ApplyToMany[T Translatable](entities []T, resolve ResolveFunc, fields []string) {
	for _, entity := range entities {
		ApplyToOne(entity, resolve, fields)
	}
}
