// Package template renders the printable HTML certificate from a resolved
// contact record and the issuer profile.
package template

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/vinotinto/certificados/internal/model"
)

// Placeholder strings printed when a contact record lacks a field. They are
// deliberately visible so an incomplete certificate is caught on sight.
const (
	PlaceholderName      = "[Nombre no disponible]"
	PlaceholderCourse    = "[Curso no especificado]"
	PlaceholderCedula    = "[Cédula no disponible]"
	PlaceholderGeneric   = "[N/A]"
	PlaceholderDate      = "[Fecha no especificada]"
	PlaceholderStartDate = "[FECHA INICIO PENDIENTE]"
)

// certificateData is the full set of values the HTML template consumes.
// Every string field is already placeholder-defaulted; html/template takes
// care of escaping.
type certificateData struct {
	StudentName    string
	Cedula         string
	DocumentType   string
	CourseName     string
	CourseStage    string
	Hours          string
	CourseDate     string
	StartDate      string
	ExpeditionDate string
	ARL            string

	TrainerName         string
	TrainerLicense      string
	TrainerSignatureURL string

	ValidationID string
	Issuer       IssuerProfile
}

// Renderer produces certificate HTML documents.
type Renderer struct {
	tmpl    *template.Template
	profile IssuerProfile
}

func NewRenderer(profile IssuerProfile) (*Renderer, error) {
	tmpl, err := template.New("certificate").Parse(certificateHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing certificate template: %w", err)
	}
	return &Renderer{tmpl: tmpl, profile: profile}, nil
}

// Render builds the certificate HTML for a contact. trainer may be nil, in
// which case the issuer profile's default trainer signs. validationID is
// printed verbatim when non-empty.
func (r *Renderer) Render(contact *model.ContactRecord, trainer *model.Trainer, validationID string) (string, error) {
	data := certificateData{
		StudentName:    orDefault(contact.FullName(), PlaceholderName),
		Cedula:         orDefault(contact.Field("cedula"), PlaceholderCedula),
		DocumentType:   orDefault(contact.Field("tipo_de_documento"), "Cédula de Ciudadanía"),
		CourseName:     orDefault(contact.Field("nombre_del_curso"), PlaceholderCourse),
		CourseStage:    contact.Field("etapa_del_curso"),
		Hours:          orDefault(contact.Field("intensidad_horaria"), PlaceholderGeneric),
		CourseDate:     orDefault(contact.Field("fecha_de_realizado"), PlaceholderDate),
		StartDate:      orDefault(contact.Field("fecha_de_inicio"), PlaceholderStartDate),
		ExpeditionDate: orDefault(contact.Field("fecha_de_expedicion"), PlaceholderDate),
		ARL:            orDefault(contact.Field("arl"), PlaceholderGeneric),

		TrainerName:    r.profile.DefaultTrainer,
		TrainerLicense: r.profile.License,

		ValidationID: validationID,
		Issuer:       r.profile,
	}
	if trainer != nil {
		data.TrainerName = orDefault(trainer.Name, r.profile.DefaultTrainer)
		if trainer.License != "" {
			data.TrainerLicense = trainer.License
		}
		if validSignatureURL(trainer.SignatureURL) {
			data.TrainerSignatureURL = trainer.SignatureURL
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing certificate template: %w", err)
	}
	return buf.String(), nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// validSignatureURL accepts only absolute http(s) URLs. Anything else is
// dropped rather than embedded in the document.
func validSignatureURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

const certificateHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Certificado</title>
<style>
  @page { size: A4 portrait; margin: 0; }
  body { font-family: Georgia, "Times New Roman", serif; margin: 0; color: #1a1a2e; }
  .sheet { box-sizing: border-box; width: 210mm; min-height: 297mm; padding: 18mm 20mm; }
  .frame { border: 3px double #1f3a5f; padding: 14mm 16mm; min-height: 255mm; box-sizing: border-box; position: relative; }
  .header { text-align: center; }
  .header h1 { font-size: 30px; letter-spacing: 4px; color: #1f3a5f; margin: 0 0 4px; }
  .header .org { font-size: 14px; text-transform: uppercase; letter-spacing: 1px; }
  .header .resolution { font-size: 10px; color: #555; margin-top: 4px; }
  .certifies { text-align: center; font-size: 13px; margin-top: 14mm; }
  .student { text-align: center; font-size: 26px; font-weight: bold; margin: 6mm 0 2mm; border-bottom: 1px solid #1f3a5f; display: inline-block; padding: 0 8mm 2mm; }
  .student-wrap { text-align: center; }
  .cedula { text-align: center; font-size: 13px; margin-bottom: 10mm; }
  .course { text-align: center; font-size: 19px; font-weight: bold; text-transform: uppercase; margin: 0 0 4mm; }
  .detail { text-align: center; font-size: 12px; line-height: 1.7; }
  .signatures { display: flex; justify-content: space-around; margin-top: 24mm; }
  .signature { text-align: center; width: 60mm; font-size: 11px; }
  .signature img { max-height: 18mm; margin-bottom: 2mm; }
  .signature .line { border-top: 1px solid #1a1a2e; padding-top: 2mm; }
  .signature .role { color: #555; }
  .footer { position: absolute; bottom: 10mm; left: 16mm; right: 16mm; text-align: center; font-size: 9px; color: #555; line-height: 1.5; }
  .validation { font-size: 9px; margin-top: 2mm; letter-spacing: 1px; }
</style>
</head>
<body>
<div class="sheet">
  <div class="frame">
    <div class="header">
      <div class="org">HSEQ del Golfo</div>
      <h1>CERTIFICADO</h1>
      <div class="resolution">Resolución {{.Issuer.Resolution}}</div>
    </div>
    <div class="certifies">Hace constar que:</div>
    <div class="student-wrap"><span class="student">{{.StudentName}}</span></div>
    <div class="cedula">{{.DocumentType}} No. {{.Cedula}}</div>
    <div class="certifies">Asistió y aprobó el curso de:</div>
    <div class="course">{{.CourseName}}</div>
    {{if .CourseStage}}<div class="detail">Etapa: {{.CourseStage}}</div>{{end}}
    <div class="detail">
      Con una intensidad de {{.Hours}} horas<br>
      Fecha de inicio: {{.StartDate}}<br>
      Realizado el: {{.CourseDate}}<br>
      Fecha de expedición: {{.ExpeditionDate}}<br>
      ARL: {{.ARL}}
    </div>
    <div class="signatures">
      <div class="signature">
        <div style="height:18mm"></div>
        <div class="line">{{.Issuer.LegalRepresentative}}</div>
        <div class="role">Representante Legal</div>
      </div>
      <div class="signature">
        {{if .TrainerSignatureURL}}<img src="{{.TrainerSignatureURL}}" alt="">{{else}}<div style="height:18mm"></div>{{end}}
        <div class="line">{{.TrainerName}}</div>
        <div class="role">{{.Issuer.DefaultTrainerTitle}} - {{.TrainerLicense}}</div>
      </div>
    </div>
    <div class="footer">
      {{.Issuer.License}}<br>
      {{.Issuer.City}} &bull; Tel: {{.Issuer.Phones}} &bull; {{.Issuer.Website}}
      {{if .ValidationID}}<div class="validation">Código de verificación: {{.ValidationID}}</div>{{end}}
    </div>
  </div>
</div>
</body>
</html>
`
