// Package contact looks up CRM contacts by national ID and flattens their
// custom fields into a stable, template-ready record.
package contact

import "strings"

// CanonicalSlugs lists the custom-field slugs the certificate templates
// consume. Lookups through ResolveField tolerate the historical drift
// between dash and underscore spellings in the CRM schema.
var CanonicalSlugs = []string{
	"nombre_del_curso",
	"nombre_de_la_empresa_empl",
	"nit_de_la_empresa_emplead",
	"estado_de_pago_del_curso",
	"id_ministerio_del_curso",
	"rut_empresa",
	"cedula_escaneada",
	"seguridad_social",
	"curso_avanzado_o_trabajad",
	"certificado_sg_sst",
	"certificado_de_curso_reen",
	"examen_medico_en_alturas",
	"intensidad_horaria",
	"fecha_de_realizado",
	"fecha_de_expedicion",
	"arl",
	"representante_legal_de_la",
	"etapa_del_curso",
	"_estado_de_la_documentaci",
	"numero_factura",
	"nci",
	"fecha_de_inicio",
	"tipo_de_documento",
	"nombre_de_contacto_de_la_",
	"correo_electronico_de_la_",
	"telefono",
}

// ResolveField returns the value for canonicalKey from fields, trying the
// spellings the CRM has used over time, in order:
//
//  1. the key exactly as given
//  2. underscores replaced with dashes
//  3. dashes replaced with underscores, when that differs from the key
//  4. the key with trailing underscores stripped
//
// The first variant present in fields wins even if its value is empty.
// When no variant is present the result is the empty string.
func ResolveField(fields map[string]string, canonicalKey string) string {
	if key, ok := resolveKey(fields, canonicalKey); ok {
		return fields[key]
	}
	return ""
}

// resolveKey reports which spelling of canonicalKey, if any, is present in
// fields.
func resolveKey(fields map[string]string, canonicalKey string) (string, bool) {
	if _, ok := fields[canonicalKey]; ok {
		return canonicalKey, true
	}
	if dashed := strings.ReplaceAll(canonicalKey, "_", "-"); dashed != canonicalKey {
		if _, ok := fields[dashed]; ok {
			return dashed, true
		}
	}
	if underscored := strings.ReplaceAll(canonicalKey, "-", "_"); underscored != canonicalKey {
		if _, ok := fields[underscored]; ok {
			return underscored, true
		}
	}
	if trimmed := strings.TrimRight(canonicalKey, "_"); trimmed != canonicalKey {
		if _, ok := fields[trimmed]; ok {
			return trimmed, true
		}
	}
	return "", false
}
