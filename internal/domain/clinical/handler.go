package clinical

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emr/emr/internal/platform/auth"
	"github.com/emr/emr/internal/platform/crud"
	"github.com/emr/emr/internal/platform/db"
)

type Handler struct {
	svc *Service
	tx  db.Transactor
}

func NewHandler(svc *Service, tx db.Transactor) *Handler {
	return &Handler{svc: svc, tx: tx}
}

// filterPatient narrows a list to ?patientId= when given.
func filterPatient(c echo.Context, q *db.Query) error {
	id, ok, err := crud.QueryID(c, "patientId")
	if err != nil {
		return err
	}
	if ok {
		q.Eq("patient_id", id)
	}
	return nil
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := auth.AdminOnly
	clinical := crud.Access{Read: auth.MedicalStaff, Write: auth.MedicalStaff, Delete: &admin}

	(&crud.Resource[MedicalRecord, MedicalRecordDTO]{
		Store: h.svc.Records, Tx: h.tx, ToDTO: ToMedicalRecordDTO, Apply: applyMedicalRecordDTO,
		Prepare: h.svc.PrepareMedicalRecord, Filter: filterPatient, OrderBy: "record_date DESC",
	}).Mount(api, "/medical-records", clinical)

	(&crud.Resource[Diagnosis, DiagnosisDTO]{
		Store: h.svc.Diagnoses, Tx: h.tx, ToDTO: ToDiagnosisDTO, Apply: applyDiagnosisDTO,
		Prepare: h.svc.PrepareDiagnosis, Filter: filterPatient, OrderBy: "diagnosis_date DESC",
	}).Mount(api, "/diagnoses", clinical)

	(&crud.Resource[Procedure, ProcedureDTO]{
		Store: h.svc.Procedures, Tx: h.tx, ToDTO: ToProcedureDTO, Apply: applyProcedureDTO,
		Prepare: h.svc.PrepareProcedure, Filter: filterPatient, OrderBy: "procedure_date DESC",
	}).Mount(api, "/procedures", clinical)

	(&crud.Resource[Observation, ObservationDTO]{
		Store: h.svc.Observations, Tx: h.tx, ToDTO: ToObservationDTO, Apply: applyObservationDTO,
		Prepare: h.svc.PrepareObservation, Filter: filterPatient, OrderBy: "observation_date DESC",
	}).Mount(api, "/observations", clinical)

	(&crud.Resource[ClinicalNote, ClinicalNoteDTO]{
		Store: h.svc.Notes, Tx: h.tx, ToDTO: ToClinicalNoteDTO, Apply: applyClinicalNoteDTO,
		Prepare: h.svc.PrepareClinicalNote, Filter: filterPatient, OrderBy: "created_date DESC",
	}).Mount(api, "/clinical-notes", clinical)

	(&crud.Resource[Allergy, AllergyDTO]{
		Store: h.svc.Allergies, Tx: h.tx, ToDTO: ToAllergyDTO, Apply: applyAllergyDTO,
		Prepare: h.svc.PrepareAllergy, Filter: filterPatient, OrderBy: "allergen",
	}).Mount(api, "/allergies", clinical)

	(&crud.Resource[VitalSign, VitalSignDTO]{
		Store: h.svc.Vitals, Tx: h.tx, ToDTO: ToVitalSignDTO, Apply: applyVitalSignDTO,
		Prepare: h.svc.PrepareVitalSign, Filter: filterPatient, OrderBy: "recorded_date DESC",
	}).Mount(api, "/vital-signs", clinical)

	(&crud.Resource[FamilyHistory, FamilyHistoryDTO]{
		Store: h.svc.FamilyHistory, Tx: h.tx, ToDTO: ToFamilyHistoryDTO, Apply: applyFamilyHistoryDTO,
		Prepare: h.svc.PrepareFamilyHistory, Filter: filterPatient, OrderBy: "relationship",
	}).Mount(api, "/family-histories", clinical)

	(&crud.Resource[Referral, ReferralDTO]{
		Store: h.svc.Referrals, Tx: h.tx, ToDTO: ToReferralDTO, Apply: applyReferralDTO,
		Prepare: h.svc.PrepareReferral, Filter: filterPatient, OrderBy: "referral_date DESC",
	}).Mount(api, "/referrals", crud.Access{Read: auth.FrontDesk, Write: auth.MedicalStaff, Delete: &admin})

	g := api.Group("", auth.RequirePolicy(auth.MedicalStaff))
	s := h.svc

	g.GET("/patients/:id/medical-records", crud.ListBy("id", s.Records.GetByPatient, ToMedicalRecordDTO))
	g.GET("/patients/:id/diagnoses", crud.ListBy("id", s.Diagnoses.GetByPatient, ToDiagnosisDTO))
	g.GET("/patients/:id/diagnoses/active", crud.ListBy("id", s.Diagnoses.GetActiveByPatient, ToDiagnosisDTO))
	g.GET("/patients/:id/procedures", crud.ListBy("id", s.Procedures.GetByPatient, ToProcedureDTO))
	g.GET("/patients/:id/observations", crud.ListBy("id", s.Observations.GetByPatient, ToObservationDTO))
	g.GET("/patients/:id/observations/:code", h.ObservationSeries)
	g.GET("/patients/:id/clinical-notes", crud.ListBy("id", s.Notes.GetByPatient, ToClinicalNoteDTO))
	g.GET("/patients/:id/allergies", crud.ListBy("id", s.Allergies.GetByPatient, ToAllergyDTO))
	g.GET("/patients/:id/allergies/active", crud.ListBy("id", s.Allergies.GetActiveByPatient, ToAllergyDTO))
	g.GET("/patients/:id/vital-signs", crud.ListBy("id", s.Vitals.GetByPatient, ToVitalSignDTO))
	g.GET("/patients/:id/vital-signs/latest", h.LatestVitals)
	g.GET("/patients/:id/family-history", crud.ListBy("id", s.FamilyHistory.GetByPatient, ToFamilyHistoryDTO))
	g.GET("/patients/:id/referrals", crud.ListBy("id", s.Referrals.GetByPatient, ToReferralDTO))
	g.GET("/patients/:id/clinical-summary", h.Summary)

	g.GET("/encounters/:id/diagnoses", crud.ListBy("id", s.Diagnoses.GetByEncounter, ToDiagnosisDTO))
	g.GET("/encounters/:id/procedures", crud.ListBy("id", s.Procedures.GetByEncounter, ToProcedureDTO))
	g.GET("/encounters/:id/observations", crud.ListBy("id", s.Observations.GetByEncounter, ToObservationDTO))
	g.GET("/encounters/:id/clinical-notes", crud.ListBy("id", s.Notes.GetByEncounter, ToClinicalNoteDTO))
	g.GET("/encounters/:id/vital-signs", crud.ListBy("id", s.Vitals.GetByEncounter, ToVitalSignDTO))

	g.GET("/providers/:id/medical-records", crud.ListBy("id", s.Records.GetByProvider, ToMedicalRecordDTO))
	g.GET("/providers/:id/referrals/outgoing", crud.ListBy("id", s.Referrals.GetByReferringProvider, ToReferralDTO))
	g.GET("/providers/:id/referrals/incoming", crud.ListBy("id", s.Referrals.GetByReferredToProvider, ToReferralDTO))

	g.GET("/procedures/range", h.ProceduresInRange)
	g.GET("/clinical-notes/unsigned", h.Unsigned)
	g.GET("/referrals/status/:status", h.ReferralsByStatus)
	g.POST("/clinical-notes/:id/sign", h.Sign, auth.RequirePolicy(auth.DoctorOnly))
}

func (h *Handler) ObservationSeries(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.Observations.GetByPatientAndCode(c.Request().Context(), id, c.Param("code"))
	return crud.List(c, items, err, ToObservationDTO)
}

func (h *Handler) LatestVitals(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.svc.LatestVitals(c.Request().Context(), id)
	return crud.One(c, v, err, ToVitalSignDTO)
}

type summaryDTO struct {
	ActiveDiagnoses []DiagnosisDTO `json:"activeDiagnoses"`
	ActiveAllergies []AllergyDTO   `json:"activeAllergies"`
	LatestVitals    *VitalSignDTO  `json:"latestVitals"`
}

func (h *Handler) Summary(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	sum, err := h.svc.Summary(c.Request().Context(), id)
	if err != nil {
		return crud.HTTPError(err)
	}
	out := summaryDTO{
		ActiveDiagnoses: crud.MapAll(sum.ActiveDiagnoses, ToDiagnosisDTO),
		ActiveAllergies: crud.MapAll(sum.ActiveAllergies, ToAllergyDTO),
	}
	if sum.LatestVitals != nil {
		v := ToVitalSignDTO(sum.LatestVitals)
		out.LatestVitals = &v
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ProceduresInRange(c echo.Context) error {
	from, okFrom, err := crud.QueryTime(c, "from")
	if err != nil {
		return err
	}
	to, okTo, err := crud.QueryTime(c, "to")
	if err != nil {
		return err
	}
	if !okFrom || !okTo {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to are required")
	}
	items, err := h.svc.ProceduresInRange(c.Request().Context(), from, to)
	return crud.List(c, items, err, ToProcedureDTO)
}

// Unsigned lists notes awaiting signature, optionally for ?providerId=.
func (h *Handler) Unsigned(c echo.Context) error {
	providerID, _, err := crud.QueryID(c, "providerId")
	if err != nil {
		return err
	}
	items, err := h.svc.UnsignedNotes(c.Request().Context(), providerID)
	return crud.List(c, items, err, ToClinicalNoteDTO)
}

func (h *Handler) ReferralsByStatus(c echo.Context) error {
	items, err := h.svc.Referrals.GetByStatus(c.Request().Context(), c.Param("status"))
	return crud.List(c, items, err, ToReferralDTO)
}

func (h *Handler) Sign(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.svc.SignNote(c.Request().Context(), id)
	return crud.One(c, n, err, ToClinicalNoteDTO)
}
