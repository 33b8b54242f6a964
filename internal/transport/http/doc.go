// Package http implements the HTTP handlers of the interview check service.
// Handlers stay thin: they parse and validate the request, call a service
// through the interfaces in interfaces.go and render the result.
//
// # Routes
//
//	GET    /api/roster                                     candidate list (?q=, ?pin_older=)
//	GET    /api/roster/{candidateID}                       one candidate
//	GET    /api/interviewers/{iv}/evaluations              the interviewer's result table
//	GET    /api/interviewers/{iv}/evaluations/{id}         one evaluation
//	PUT    /api/interviewers/{iv}/evaluations/{id}         save (upsert) an evaluation
//	DELETE /api/interviewers/{iv}/evaluations/{id}         request a delete token (202)
//	DELETE /api/interviewers/{iv}/evaluations/{id}?confirm= delete with the token
//	GET    /api/interviewers/{iv}/progress                 completed/total
//	GET    /api/interviewers/{iv}/export                   workbook download
//	GET    /api/interviewers/{iv}/timer/{id}               timer snapshot
//	POST   /api/interviewers/{iv}/timer/{id}/start|pause|reset
//	GET    /api/interviewers/{iv}/timer/{id}/ws            countdown stream
//	POST   /api/merge                                      merge uploaded workbooks
//	POST   /api/merge/export?kind=full|summary             merged workbook download
//	POST   /api/merge/results                              merge the files in the output directory
//	POST   /api/merge/results/export
//
// # Error Handling
//
// Every failure goes through errors.ErrorHandler and is written as an
// RFC 7807 problem document:
//
//	{
//	    "type": "/errors/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "evaluation not found",
//	    "instance": "/api/interviewers/alice/evaluations/260001_Kim",
//	    "trace_id": "..."
//	}
//
// Workbook downloads are rendered into a buffer first so a failed export
// still produces a problem response instead of a truncated file.
package http
