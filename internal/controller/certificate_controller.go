package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// ListMyCertificates godoc
// @Summary 我的证书
// @Tags 学生端-证书
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/student/certificates [get]
func (c *CertificateController) ListMyCertificates(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	certs, err := c.CertificateService.ListMyCertificates(actor.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// GetCertificate godoc
// @Summary 证书详情
// @Tags 学生端-证书
// @Produce json
// @Security BearerAuth
// @Param id path int true "证书ID"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response
// @Router /api/student/certificates/{id} [get]
func (c *CertificateController) GetCertificate(ctx *gin.Context) {
	actor, _ := util.GetActorFromContext(ctx)

	cert, err := c.CertificateService.GetCertificate(actor.ID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// VerifyCertificate godoc
// @Summary 证书验真
// @Description 公开接口，按证书编号查询
// @Tags 证书
// @Produce json
// @Param code path string true "证书编号"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response
// @Router /api/certificates/verify/{code} [get]
func (c *CertificateController) VerifyCertificate(ctx *gin.Context) {
	cert, err := c.CertificateService.VerifyByCode(ctx.Param("code"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}
