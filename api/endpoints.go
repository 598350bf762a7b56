/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package api

// Auth and profile endpoints.
const (
	EndPointSignIn      = "/api/signin"
	EndPointSignUp      = "/api/signup"
	EndPointUserDetails = "/api/userdetails"
	EndPointUpdateUser  = "/api/updateuser"
	EndPointPassword    = "/api/changepassword"
)

// Collection endpoints, each returning a JSON array.
const (
	EndPointPatients       = "/api/clinic/patients"
	EndPointAppointments   = "/api/clinic/appointments"
	EndPointTreatmentPlans = "/api/clinic/get-plans"
	EndPointInventory      = "/api/inventory"
	EndPointDentists       = "/api/dentist"
	EndPointTeamMembers    = "/api/clinic/team-members"
	EndPointFeed           = "/api/post/all"
	EndPointMedicalRecords = "/api/patients/patient-medicalRecords"
)

// Endpoints for the clinic's own details: GET to fetch, POST to create and PUT
// to update.
const EndPointClinicInfo = "/api/clinic"

// Post endpoints. EndPointPosts is GET for your own posts and POST (multipart)
// to create one.
const (
	EndPointPosts   = "/api/post"
	EndPointAddLike = "/api/post/add-like"
)

// Mutation endpoints.
const (
	EndPointAddPatient        = "/api/clinic/add-patient"
	EndPointCreateAppointment = "/api/patients/create-appointment"
	EndPointAppointmentStatus = "/api/clinic/update-appointment-status"
	EndPointAddPlan           = "/api/clinic/add-plan"
	EndPointAddSession        = "/api/clinic/add-session"
	EndPointUpdateSession     = "/api/clinic/update-session"
	EndPointCompleteSession   = "/api/clinic/complete-session"
	EndPointDeleteSession     = "/api/clinic/delete-session"
	EndPointRestock           = "/api/Inventory"
	EndPointAddMember         = "/api/clinic/add-member"
	EndPointUpdateMember      = "/api/clinic/update-member"
)

// Query parameter names used by the mutation endpoints.
const (
	ParamTreatmentID = "treatmentId"
	ParamSessionID   = "sessionId"
	ParamInventoryID = "inventoryId"
	ParamPatientID   = "id"
	ParamPostID      = "postId"
)
